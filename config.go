package squawk

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~emersion/go-scfg"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrBadChannel   = errors.New("channel must start with #")
	ErrBadPassword  = errors.New("password must start with oauth:")
)

type Config struct {
	Channel     string
	Username    string
	Password    string
	Proxy       string
	MetricsAddr string

	Print PrintConfig
	Vars  *Vars

	Debug bool
}

func Defaults() Config {
	return Config{
		Print: DefaultPrintConfig(),
		Vars:  NewVars(),
	}
}

// Validate checks the fields the connection sequence depends on. It
// never includes the password value in an error.
func (cfg *Config) Validate() error {
	if cfg.Channel == "" {
		return fmt.Errorf("%w: channel", ErrMissingField)
	}
	if !strings.HasPrefix(cfg.Channel, "#") {
		return fmt.Errorf("%w: %q", ErrBadChannel, cfg.Channel)
	}
	if cfg.Username == "" {
		return fmt.Errorf("%w: username", ErrMissingField)
	}
	if cfg.Password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	if !strings.HasPrefix(cfg.Password, "oauth:") {
		return ErrBadPassword
	}
	return nil
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	cfg = Defaults()

	err = unmarshal(filename, &cfg)
	if err != nil {
		return cfg, err
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("TWITCH_OAUTH_TOKEN")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func unmarshal(filename string, cfg *Config) (err error) {
	directives, err := scfg.Load(filename)
	if err != nil {
		return fmt.Errorf("error parsing scfg: %s", err)
	}

	for _, d := range directives {
		switch d.Name {
		case "channel":
			if err := d.ParseParams(&cfg.Channel); err != nil {
				return err
			}
		case "username":
			if err := d.ParseParams(&cfg.Username); err != nil {
				return err
			}
		case "password":
			if err := d.ParseParams(&cfg.Password); err != nil {
				return err
			}
		case "proxy":
			if err := d.ParseParams(&cfg.Proxy); err != nil {
				return err
			}
		case "metrics-addr":
			if err := d.ParseParams(&cfg.MetricsAddr); err != nil {
				return err
			}
		case "declare":
			if len(d.Params) != 2 && len(d.Params) != 3 {
				return fmt.Errorf("declare wants a kind, a name and an optional value")
			}

			kind, err := parseKind(d.Params[0])
			if err != nil {
				return err
			}
			name := d.Params[1]
			if err := cfg.Vars.Declare(name, Value{Kind: kind}); err != nil {
				return err
			}
			if len(d.Params) == 3 {
				if err := cfg.Vars.SetString(name, d.Params[2]); err != nil {
					return err
				}
			}
		case "user":
			var name, value string
			if err := d.ParseParams(&name, &value); err != nil {
				return err
			}

			if err := cfg.Vars.SetString(name, value); err != nil {
				return err
			}
		case "print":
			for _, child := range d.Children {
				var raw string
				if err := child.ParseParams(&raw); err != nil {
					return err
				}

				switch child.Name {
				case "render":
					switch raw {
					case "text":
						cfg.Print.Render = RenderText
					case "raw":
						cfg.Print.Render = RenderRaw
					default:
						return fmt.Errorf("unknown render mode %q", raw)
					}
					continue
				}

				v, err := strconv.ParseBool(raw)
				if err != nil {
					return err
				}
				switch child.Name {
				case "chat":
					cfg.Print.Chat = v
				case "membership":
					cfg.Print.Membership = v
				case "mode":
					cfg.Print.Mode = v
				case "state":
					cfg.Print.State = v
				case "self":
					cfg.Print.SelfEcho = v
				case "other":
					cfg.Print.Other = v
				case "silent":
					cfg.Print.Silent = v
				case "all":
					if v {
						cfg.Print = ShowAll()
					}
				default:
					return fmt.Errorf("unknown directive %q", child.Name)
				}
			}
		case "debug":
			var debug string
			if err := d.ParseParams(&debug); err != nil {
				return err
			}

			if cfg.Debug, err = strconv.ParseBool(debug); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown directive %q", d.Name)
		}
	}

	return
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "boolean":
		return KindBool, nil
	case "string":
		return KindString, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	}
	return 0, fmt.Errorf("unknown variable kind %q", s)
}
