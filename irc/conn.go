package irc

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"

	"github.com/squawkbot/squawk/telemetry"
)

const (
	// ChatPort is the fixed plaintext chat port.
	ChatPort = 6667

	// pongHost is the fixed host named in keep-alive replies.
	pongHost = "tmi.twitch.tv"

	// readBudget caps a single Receive read. A batch may carry
	// several lines, or cut a line short; parsing downstream is
	// lenient about both.
	readBudget = 2048

	dialTimeout = 15 * time.Second
)

// ErrNotConnected is returned for sends before Dial or after Close.
var ErrNotConnected = errors.New("irc: not connected")

// Conn owns the chat TCP connection: dialing, the send-only
// handshake, reads, and the quit sequence. Reads have a single owner
// (the host loop); writes are serialized by a mutex because timer
// callbacks send concurrently with it.
type Conn struct {
	// Host is the chat server, usually filled from Resolver.
	Host string
	// Proxy optionally routes the connection through a SOCKS5
	// proxy at this address.
	Proxy string

	wmu  sync.Mutex
	sock net.Conn
}

// NewConn adopts an established transport, for callers that do their
// own dialing.
func NewConn(sock net.Conn) *Conn {
	return &Conn{sock: sock}
}

// Dial connects to Host on the chat port, through the SOCKS5 proxy
// when one is configured.
func (c *Conn) Dial() error {
	addr := net.JoinHostPort(c.Host, strconv.Itoa(ChatPort))

	var (
		sock net.Conn
		err  error
	)
	if c.Proxy != "" {
		var d proxy.Dialer
		d, err = proxy.SOCKS5("tcp", c.Proxy, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("proxy %s: %w", c.Proxy, err)
		}
		sock, err = d.Dial("tcp", addr)
	} else {
		sock, err = net.DialTimeout("tcp", addr, dialTimeout)
	}
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}

	c.wmu.Lock()
	c.sock = sock
	c.wmu.Unlock()
	return nil
}

// Handshake authenticates and requests the membership and tags
// capabilities. Sends are sequential with no acknowledgment wait; the
// server's replies surface later through Receive.
func (c *Conn) Handshake(username, password string) error {
	if err := c.send("PASS %s", password); err != nil {
		return err
	}
	if err := c.send("NICK %s", username); err != nil {
		return err
	}
	if err := c.send("USER %s botnick botnick :Hello", username); err != nil {
		return err
	}
	if err := c.send("CAP REQ :twitch.tv/membership"); err != nil {
		return err
	}
	return c.send("CAP REQ :twitch.tv/tags")
}

// Join enters a channel.
func (c *Conn) Join(channel string) error {
	return c.send("JOIN %s", channel)
}

// Part leaves a channel.
func (c *Conn) Part(channel string) error {
	return c.send("PART %s", channel)
}

// Privmsg posts text to a channel or user.
func (c *Conn) Privmsg(target, text string) error {
	return c.send("PRIVMSG %s :%s", target, text)
}

// Receive performs one blocking read and returns the batch, possibly
// several newline-delimited lines. A batch carrying the PING token is
// acknowledged with exactly one PONG before it is returned for
// processing.
func (c *Conn) Receive() (string, error) {
	c.wmu.Lock()
	sock := c.sock
	c.wmu.Unlock()
	if sock == nil {
		return "", ErrNotConnected
	}

	buf := make([]byte, readBudget)
	n, err := sock.Read(buf)
	if err != nil {
		return "", fmt.Errorf("receive: %w", err)
	}
	batch := string(buf[:n])

	if strings.Contains(batch, "PING") {
		if err := c.send("PONG %s", pongHost); err != nil {
			return "", err
		}
		telemetry.PongAnswered()
	}
	return batch, nil
}

// Close sends QUIT and closes the socket. The close unblocks a
// concurrent Receive, which then returns an error the host loop
// treats as the end of the session.
func (c *Conn) Close(reason string) error {
	err := c.send("QUIT :%s", reason)

	c.wmu.Lock()
	sock := c.sock
	c.sock = nil
	c.wmu.Unlock()

	if sock == nil {
		return ErrNotConnected
	}
	if cerr := sock.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *Conn) send(format string, args ...any) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.sock == nil {
		return ErrNotConnected
	}
	if _, err := fmt.Fprintf(c.sock, format+"\r\n", args...); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
