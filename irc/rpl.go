package irc

// Numeric replies the chat service sends. The service speaks a small
// IRC dialect: the welcome burst, MOTD, and NAMES replies after JOIN.
const (
	RplWelcome  = "001" // :Welcome, GLHF!
	RplYourhost = "002" // :Your host is tmi.twitch.tv
	RplCreated  = "003" // :This server is rather new
	RplMyinfo   = "004" // :-

	RplNamreply   = "353" // <=/*/@> <channel> :1*(@/%/&user)
	RplEndofnames = "366" // <channel> :End of /NAMES list

	RplMotd      = "372" // :- <text>
	RplMotdstart = "375" // :- Message of the day -
	RplEndofmotd = "376" // :End of /MOTD command

	ErrUnknowncommand = "421" // <command> :Unknown command
)
