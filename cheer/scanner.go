package cheer

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/squawkbot/squawk/irc"
)

// Scanner folds cheers from a message stream into a tally, keeping
// the tally file and the display file current.
type Scanner struct {
	Display       Display
	EqualOverride bool // an equal amount takes over the max slot

	tallyPath   string
	displayPath string

	mu    sync.Mutex
	tally Tally
}

// NewScanner loads any existing tally from tallyPath. displayPath may
// be empty to skip display rendering.
func NewScanner(tallyPath, displayPath string) (*Scanner, error) {
	t, err := Load(tallyPath)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		Display:       Display{Format: DefaultFormat, MaxUserLen: 25},
		EqualOverride: true,
		tallyPath:     tallyPath,
		displayPath:   displayPath,
		tally:         t,
	}, nil
}

// Scan inspects one message. On a cheer it records the amount under
// the sender's display name (login name when the tag is blank), saves
// the tally and rewrites the display file. It reports whether the
// message was a cheer.
func (s *Scanner) Scan(msg *irc.Message) (bool, error) {
	if msg.Command != "PRIVMSG" || !msg.Tags.IsCheer {
		return false, nil
	}
	user := strings.TrimSpace(msg.Tags.DisplayName)
	if user == "" {
		user = msg.Prefix.Nick
	}

	s.mu.Lock()
	s.tally.Record(user, msg.Tags.Bits, s.EqualOverride)
	t := s.tally
	s.mu.Unlock()

	if err := t.Save(s.tallyPath); err != nil {
		return true, err
	}
	if s.displayPath != "" {
		if err := os.WriteFile(s.displayPath, []byte(s.Display.Render(t)), 0644); err != nil {
			return true, fmt.Errorf("write display: %w", err)
		}
	}
	return true, nil
}

// Tally returns a snapshot of the current tally.
func (s *Scanner) Tally() Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally
}
