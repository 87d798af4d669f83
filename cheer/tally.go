// Package cheer tracks the bits cheers seen in a channel: the most
// recent cheer and the largest one. The tally persists between runs
// and renders to a text file a stream overlay can source.
package cheer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

type Entry struct {
	User   string `json:"user"`
	Amount int    `json:"amount"`
}

type Tally struct {
	Latest Entry `json:"latest"`
	Max    Entry `json:"max"`
}

// Record notes one cheer. Latest always follows; Max follows on a
// strictly larger amount, or an equal one when equalOverride is set.
func (t *Tally) Record(user string, amount int, equalOverride bool) {
	t.Latest = Entry{User: user, Amount: amount}
	if amount > t.Max.Amount || (equalOverride && amount == t.Max.Amount) {
		t.Max = Entry{User: user, Amount: amount}
	}
}

// Load reads a saved tally. A missing file is an empty tally, not an
// error.
func Load(path string) (Tally, error) {
	var t Tally
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("load tally: %w", err)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("load tally: %w", err)
	}
	return t, nil
}

// Save persists the tally, replacing the file in one rename so a
// crash mid-write leaves the previous record intact.
func (t Tally) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("save tally: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("save tally: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save tally: %w", err)
	}
	return nil
}

// DefaultFormat prints the four tracked values on one line.
const DefaultFormat = "$latest $lamount $max $mamount"

// Display renders a tally into overlay text. $latest and $max expand
// to the usernames, truncated to MaxUserLen runes when that is
// positive; $lamount and $mamount to the amounts. A literal \n in the
// format becomes a newline.
type Display struct {
	Format     string
	MaxUserLen int
	AmountOnly bool // print bare numbers without the Bits label
}

func (d Display) Render(t Tally) string {
	format := d.Format
	if format == "" {
		format = DefaultFormat
	}
	r := strings.NewReplacer(
		`\n`, "\n",
		"$latest", truncate(t.Latest.User, d.MaxUserLen),
		"$lamount", formatAmount(t.Latest.Amount, !d.AmountOnly),
		"$max", truncate(t.Max.User, d.MaxUserLen),
		"$mamount", formatAmount(t.Max.Amount, !d.AmountOnly),
	)
	return r.Replace(format)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func formatAmount(amount int, label bool) string {
	if !label {
		return strconv.Itoa(amount)
	}
	if amount == 1 {
		return "1 Bit"
	}
	return fmt.Sprintf("%d Bits", amount)
}
