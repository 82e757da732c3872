package irc

import "strings"

// wire.go - the outbound command codec.
//
// Every command is a single `<VERB> <args...>` line; the terminator is
// appended by the session's write path, never here.  The codec is
// stateless and performs no validation of argument content — a caller
// that embeds CR or LF in a payload can inject extra protocol lines,
// and sanitizing that is the caller's responsibility.

const (
	// lineTerminator ends every protocol line on the wire.
	lineTerminator = "\r\n"

	// probeVerb and probeReplyVerb are the keep-alive pair.
	probeVerb      = "PING"
	probeReplyVerb = "PONG"
)

// nickCmd changes or sets the client nickname.
func nickCmd(nick string) string {
	return "NICK " + nick
}

// userCmd registers username, mode, unused, and real name.  The
// nickname doubles as username and real name.
func userCmd(nick string) string {
	return "USER " + nick + " 0 * :" + nick
}

// joinCmd enters a channel.
func joinCmd(channel string) string {
	return "JOIN " + channel
}

// privmsgCmd sends text to a channel or nick.  The trailing argument
// may contain spaces, so it carries the ':' prefix.
func privmsgCmd(target, text string) string {
	return "PRIVMSG " + target + " :" + text
}

// quitCmd announces departure with a reason.
func quitCmd(reason string) string {
	return "QUIT :" + reason
}

// probeReply turns a received probe line into its reply by swapping
// the verb, keeping the payload token untouched.
func probeReply(probe string) string {
	return strings.Replace(probe, probeVerb, probeReplyVerb, 1)
}
