package irc

import "strings"

// Prefix is the origin of a line. Nick, User and Host are filled only
// when the prefix has the full nick!user@host shape; a bare server
// prefix leaves them empty.
type Prefix struct {
	Raw  string
	Nick string
	User string
	Host string
}

// ParsePrefix splits a nick!user@host origin on "!" and "@".
func ParsePrefix(raw string) Prefix {
	p := Prefix{Raw: raw}

	nick, rest, ok := strings.Cut(raw, "!")
	if !ok {
		return p
	}
	user, host, ok := strings.Cut(rest, "@")
	if !ok {
		return p
	}

	p.Nick = nick
	p.User = user
	p.Host = host
	return p
}

// Message is one protocol line split into its wire components, plus
// the convention-based split of the body into a leading bot-command
// token and its argument.
type Message struct {
	Tags    Tags
	Prefix  Prefix
	Command string
	Params  []string
	Body    string

	// BotCmd is the first word of Body and BotArg the rest. This is
	// a chat-level convention, not part of the wire protocol.
	BotCmd string
	BotArg string
}

// ParseLine decodes one full wire line: an optional leading tag
// segment, then the prefixed message. Tags on a line that does not
// parse into a message are dropped with it.
func ParseLine(line string) Message {
	var tags Tags
	rest := line
	if strings.HasPrefix(line, "@") {
		var raw string
		raw, rest, _ = strings.Cut(line, " ")
		tags = ParseTags(raw)
	}

	msg := ParseMessage(rest)
	if msg.Command != "" {
		msg.Tags = tags
	}
	return msg
}

// ParseMessage splits a raw line into prefix, command, middle
// parameters and trailing body. Parsing is lenient and never fails: a
// line without the ":" prefix sigil, or with too few tokens, yields
// the zero Message.
func ParseMessage(line string) Message {
	var msg Message

	if !strings.HasPrefix(line, ":") {
		return msg
	}
	prefix, rest, _ := strings.Cut(line[1:], " ")
	if prefix == "" || rest == "" {
		return msg
	}
	command, rest, _ := strings.Cut(rest, " ")
	if command == "" {
		return msg
	}

	msg.Prefix = ParsePrefix(prefix)
	msg.Command = command

	// Middle parameters run until the first token that opens with
	// ":"; everything after that colon is the body, colons included.
	for rest != "" {
		if strings.HasPrefix(rest, ":") {
			msg.Body = rest[1:]
			break
		}
		var param string
		param, rest, _ = strings.Cut(rest, " ")
		if param != "" {
			msg.Params = append(msg.Params, param)
		}
	}

	if msg.Body != "" {
		msg.BotCmd, msg.BotArg, _ = strings.Cut(msg.Body, " ")
	}

	return msg
}
