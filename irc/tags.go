package irc

import (
	"strconv"
	"strings"
)

// Tags holds the decoded metadata segment of a line. Not every
// message carries every field; absent keys leave the zero value.
type Tags struct {
	// Keys lists every key present in the segment, in wire order,
	// including keys this client does not decode. Unknown keys are
	// kept so newer server fields stay observable.
	Keys []string

	// PRIVMSG and related
	Badges      []string
	Color       string
	DisplayName string
	Emotes      string
	MsgID       string
	Mod         bool
	Subscriber  bool
	Turbo       bool
	RoomID      int
	UserID      int
	UserType    string
	IsCheer     bool
	Bits        int

	// USERSTATE
	EmoteSets []string

	// ROOMSTATE
	BroadcasterLang string
	R9k             bool
	SubsOnly        bool
	Slow            int

	// USERNOTICE
	MsgParamMonths int
	SystemMsg      string
	Login          string

	// CLEARCHAT
	BanDuration int
	BanReason   string
}

// ParseTags decodes an @-prefixed tag segment of the form
// @key=value;key=value. Decoding never fails: unknown keys are
// recorded in Keys with their value discarded, unparsable numbers
// leave zero, and entries without a "=" are skipped. An empty segment
// yields the zero Tags.
func ParseTags(raw string) Tags {
	var t Tags

	raw = strings.TrimPrefix(raw, "@")
	for _, entry := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}

		switch key {
		case "badges":
			t.Badges = splitList(value)
		case "color":
			t.Color = value
		case "display-name":
			t.DisplayName = value
		case "emotes":
			t.Emotes = value
		case "id":
			t.MsgID = value
		case "mod":
			t.Mod = value == "1"
		case "subscriber":
			t.Subscriber = value == "1"
		case "turbo":
			t.Turbo = value == "1"
		case "room-id":
			t.RoomID = atoi(value)
		case "user-id":
			t.UserID = atoi(value)
		case "user-type":
			t.UserType = value
		case "bits":
			t.IsCheer = true
			t.Bits = atoi(value)
		case "emote-sets":
			t.EmoteSets = splitList(value)
		case "broadcaster-lang":
			t.BroadcasterLang = value
		case "r9k":
			t.R9k = value == "1"
		case "subs-only":
			t.SubsOnly = value == "1"
		case "slow":
			t.Slow = atoi(value)
		case "msg-param-months":
			t.MsgParamMonths = atoi(value)
		case "system-msg":
			t.SystemMsg = value
		case "login":
			t.Login = value
		case "ban-duration":
			t.BanDuration = atoi(value)
		case "ban-reason":
			t.BanReason = value
		}

		t.Keys = append(t.Keys, key)
	}

	return t
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func atoi(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}
