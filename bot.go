// Package squawk implements a Twitch chat bot: it connects to the
// chat endpoint for a channel, performs the login handshake, tracks
// channel and room state from the message stream, and exposes the
// moderation and messaging commands a bot host builds on.
package squawk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/squawkbot/squawk/irc"
	"github.com/squawkbot/squawk/telemetry"
	"github.com/squawkbot/squawk/timers"
)

// Twitch drops the connection of regular accounts sending more than
// 20 messages in 30 seconds.
const (
	sendBurst  = 20
	sendWindow = 30
)

// Bot drives one chat connection to one channel. Start it, then call
// Incoming in a loop; Say and the moderation commands can be used from
// other goroutines, timer callbacks included.
type Bot struct {
	cfg Config

	connMu sync.Mutex
	conn   *irc.Conn

	state   *channelState
	printer *printer
	vars    *Vars
	timers  *timers.Scheduler
	limit   *rate.Limiter
}

func NewBot(cfg Config) *Bot {
	vars := cfg.Vars
	if vars == nil {
		vars = NewVars()
	}
	return &Bot{
		cfg:     cfg,
		state:   newChannelState(),
		printer: newPrinter(cfg.Print),
		vars:    vars,
		timers:  timers.New(),
		limit:   rate.NewLimiter(rate.Every(sendWindow*time.Second/sendBurst), sendBurst),
	}
}

// Start validates the configuration, resolves the chat host for the
// channel, connects, logs in and joins. It returns once JOIN is sent;
// the server's responses arrive through Incoming.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.cfg.Validate(); err != nil {
		return err
	}

	var resolver irc.Resolver
	host := resolver.Resolve(ctx, b.cfg.Channel)
	slog.Info("connecting", slog.String("host", host), slog.String("channel", b.cfg.Channel))

	conn := &irc.Conn{Host: host, Proxy: b.cfg.Proxy}
	if err := conn.Dial(); err != nil {
		return err
	}
	if err := conn.Handshake(b.cfg.Username, b.cfg.Password); err != nil {
		conn.Close("")
		return err
	}
	if err := conn.Join(b.cfg.Channel); err != nil {
		conn.Close("")
		return err
	}
	slog.Info("joined", slog.String("channel", b.cfg.Channel))

	b.connMu.Lock()
	b.conn = conn
	b.connMu.Unlock()
	return nil
}

// adopt wires an established transport in place of Dial, for hosts
// that manage the connection themselves.
func (b *Bot) adopt(conn *irc.Conn) {
	b.connMu.Lock()
	b.conn = conn
	b.connMu.Unlock()
}

func (b *Bot) connection() *irc.Conn {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.conn
}

// Incoming blocks for one read, answers a liveness probe if the batch
// carries one, then parses every line in the batch: tags are split off
// and decoded, the remainder is parsed into a Message, and channel
// state is updated before the messages are returned in arrival order.
func (b *Bot) Incoming() ([]irc.Message, error) {
	conn := b.connection()
	if conn == nil {
		return nil, irc.ErrNotConnected
	}

	batch, err := conn.Receive()
	if err != nil {
		return nil, err
	}

	var msgs []irc.Message
	for _, raw := range strings.Split(batch, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		msg := irc.ParseLine(raw)
		b.state.apply(&msg)
		b.printer.echo(&msg, raw)

		telemetry.LineParsed()
		if msg.Tags.IsCheer {
			telemetry.CheerSeen()
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Say sends one chat line to the channel. Lines over the outgoing
// rate limit are dropped, not queued.
func (b *Bot) Say(text string) error {
	conn := b.connection()
	if conn == nil {
		return irc.ErrNotConnected
	}
	if !b.limit.Allow() {
		slog.Warn("rate limit reached, dropping message", slog.String("channel", b.cfg.Channel))
		return nil
	}

	if err := conn.Privmsg(b.cfg.Channel, text); err != nil {
		return err
	}
	telemetry.MessageSent()
	b.printer.echoSelf(text)
	return nil
}

// Action sends an emoted line (/me).
func (b *Bot) Action(text string) error {
	return b.Say(fmt.Sprintf(".me %s", text))
}

// SetColor changes the bot's chat color.
func (b *Bot) SetColor(color string) error {
	return b.Say(fmt.Sprintf(".color %s", color))
}

func (b *Bot) Ignore(username string) error {
	return b.Say(fmt.Sprintf(".ignore %s", username))
}

func (b *Bot) Unignore(username string) error {
	return b.Say(fmt.Sprintf(".unignore %s", username))
}

// Timeout silences a user for the given number of seconds.
func (b *Bot) Timeout(username string, seconds int) error {
	return b.Say(fmt.Sprintf(".timeout %s %d", username, seconds))
}

// Purge wipes a user's recent messages with a one-second timeout.
func (b *Bot) Purge(username string) error {
	return b.Timeout(username, 1)
}

func (b *Bot) Ban(username string) error {
	return b.Say(fmt.Sprintf(".ban %s", username))
}

func (b *Bot) Unban(username string) error {
	return b.Say(fmt.Sprintf(".unban %s", username))
}

// ClearChat wipes the channel's chat history.
func (b *Bot) ClearChat() error {
	return b.Say(".clear")
}

// SlowOn limits users to one message per the given number of seconds.
func (b *Bot) SlowOn(seconds int) error {
	return b.Say(fmt.Sprintf(".slow %d", seconds))
}

func (b *Bot) SlowOff() error {
	return b.Say(".slowoff")
}

func (b *Bot) SubsOn() error {
	return b.Say(".subscribers")
}

func (b *Bot) SubsOff() error {
	return b.Say(".subscribersoff")
}

func (b *Bot) R9kOn() error {
	return b.Say(".r9kbeta")
}

func (b *Bot) R9kOff() error {
	return b.Say(".r9kbetaoff")
}

func (b *Bot) EmoteOnlyOn() error {
	return b.Say(".emoteonly")
}

func (b *Bot) EmoteOnlyOff() error {
	return b.Say(".emoteonlyoff")
}

// Quit sends QUIT with the given reason and closes the connection,
// unblocking any Incoming call in flight. The timer scheduler is left
// to its owner; stop it separately.
func (b *Bot) Quit(reason string) error {
	conn := b.connection()
	if conn == nil {
		return irc.ErrNotConnected
	}
	err := conn.Close(reason)

	b.connMu.Lock()
	b.conn = nil
	b.connMu.Unlock()
	return err
}

// Users returns the known channel members, sorted.
func (b *Bot) Users() []string { return b.state.userList() }

// Mods returns the known elevated users, sorted.
func (b *Bot) Mods() []string { return b.state.modList() }

// HasUser reports whether a user is known to be in the channel.
func (b *Bot) HasUser(name string) bool { return b.state.hasUser(name) }

// IsMod reports whether a user is known to hold elevation.
func (b *Bot) IsMod(name string) bool { return b.state.isMod(name) }

// Room returns a snapshot of the channel's moderation flags.
func (b *Bot) Room() RoomState { return b.state.roomState() }

// Timers returns the bot's timer scheduler.
func (b *Bot) Timers() *timers.Scheduler { return b.timers }

// Vars returns the bot's user variable store.
func (b *Bot) Vars() *Vars { return b.vars }

// SetPrint swaps the echo configuration at runtime.
func (b *Bot) SetPrint(cfg PrintConfig) { b.printer.setConfig(cfg) }

// SetPrintOutput redirects echoed traffic, stdout by default.
func (b *Bot) SetPrintOutput(w io.Writer) { b.printer.setOutput(w) }
