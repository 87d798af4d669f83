package squawk

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/squawkbot/squawk/irc"
)

// RenderMode selects how echoed traffic is formatted.
type RenderMode int

const (
	// RenderText prints chat as "nick: body" and other traffic as the
	// parsed command with its params.
	RenderText RenderMode = iota
	// RenderRaw prints the wire line untouched.
	RenderRaw
)

// PrintConfig selects which traffic categories are echoed to the
// console. The zero value echoes nothing.
type PrintConfig struct {
	Chat       bool // PRIVMSG
	Membership bool // JOIN, PART, QUIT, 353
	Mode       bool // MODE
	State      bool // NOTICE, ROOMSTATE, USERSTATE, CLEARCHAT
	SelfEcho   bool // lines the bot itself sends
	Other      bool // everything not matched above
	Silent     bool // overrides all of the above
	Render     RenderMode
}

// DefaultPrintConfig echoes chat, membership traffic, mode changes and
// unclassified traffic.
func DefaultPrintConfig() PrintConfig {
	return PrintConfig{
		Chat:       true,
		Membership: true,
		Mode:       true,
		Other:      true,
	}
}

// ShowAll echoes every category, raw.
func ShowAll() PrintConfig {
	return PrintConfig{
		Chat:       true,
		Membership: true,
		Mode:       true,
		State:      true,
		SelfEcho:   true,
		Other:      true,
		Render:     RenderRaw,
	}
}

// SuppressAll echoes nothing.
func SuppressAll() PrintConfig {
	return PrintConfig{Silent: true}
}

type printer struct {
	mu  sync.Mutex
	cfg PrintConfig
	out io.Writer
}

func newPrinter(cfg PrintConfig) *printer {
	return &printer{cfg: cfg, out: os.Stdout}
}

func (p *printer) setConfig(cfg PrintConfig) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}

func (p *printer) setOutput(w io.Writer) {
	p.mu.Lock()
	p.out = w
	p.mu.Unlock()
}

// echo prints one received message if its category is enabled. Other
// acts as a catch-all: when set, any non-chat line is echoed even if
// its own category is off.
func (p *printer) echo(msg *irc.Message, raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Silent {
		return
	}

	show := false
	switch msg.Command {
	case "PRIVMSG":
		show = p.cfg.Chat
	case "JOIN", "PART", "QUIT", irc.RplNamreply:
		show = p.cfg.Membership || p.cfg.Other
	case "MODE":
		show = p.cfg.Mode || p.cfg.Other
	case "NOTICE", "ROOMSTATE", "USERSTATE", "CLEARCHAT":
		show = p.cfg.State || p.cfg.Other
	default:
		show = p.cfg.Other
	}
	if !show {
		return
	}

	if p.cfg.Render == RenderRaw {
		fmt.Fprintln(p.out, raw)
		return
	}
	fmt.Fprintln(p.out, renderText(msg, raw))
}

// echoSelf prints a line the bot sent, prefixed so it stands apart
// from channel traffic.
func (p *printer) echoSelf(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Silent || !p.cfg.SelfEcho {
		return
	}
	fmt.Fprintf(p.out, "SELF: %s\n", line)
}

func renderText(msg *irc.Message, raw string) string {
	switch msg.Command {
	case "PRIVMSG":
		nick := msg.Prefix.Nick
		if msg.Tags.DisplayName != "" {
			nick = msg.Tags.DisplayName
		}
		return fmt.Sprintf("%s: %s", nick, msg.Body)
	case "JOIN", "PART", "QUIT":
		return fmt.Sprintf("%s %s", msg.Command, msg.Prefix.Nick)
	default:
		// The line without its tag segment.
		if strings.HasPrefix(raw, "@") {
			if _, rest, ok := strings.Cut(raw, " "); ok {
				return rest
			}
		}
		return raw
	}
}
