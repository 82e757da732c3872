package irc

import "strings"

// classify.go - inbound line classification.
//
// Two patterns are recognized, checked in order with first match
// winning; everything else passes through verbatim.  Classification
// never drops a line: every inbound line becomes exactly one event
// (plus, for a probe, one reply write).

const (
	// ProbeEventPrefix annotates forwarded keep-alive probes so the
	// consumer can render them apart from chat text.
	ProbeEventPrefix = ">>> Server ping: "

	// ServiceEventPrefix annotates notices directed at us by the
	// nickname service.
	ServiceEventPrefix = "!!! NICKSERV: "

	// ClosedEvent is the final event emitted when the connection to
	// the server is gone.
	ClosedEvent = "Connection to server closed."

	// serviceNick is the network's nickname-registration service.
	serviceNick = "NickServ"

	// serviceHostSuffix matches the canonical service hostmask.
	serviceHostSuffix = "!NickServ@services"
)

// lineClass is the category assigned to one inbound line.
type lineClass int

const (
	classPlain lineClass = iota
	classProbe
	classService
)

// classifyLine categorizes one inbound line for the receiver.
func classifyLine(line, nick string) lineClass {
	if isProbe(line) {
		return classProbe
	}
	if isServiceNotice(line, nick) {
		return classService
	}
	return classPlain
}

// isProbe reports whether the line's first token is the keep-alive
// probe verb.
func isProbe(line string) bool {
	token, _, _ := strings.Cut(line, " ")
	return token == probeVerb
}

// isServiceNotice reports whether line is a NOTICE or PRIVMSG from the
// nickname service addressed exactly to our nick.  The line must have
// the shape `:sender VERB target :text`.
func isServiceNotice(line, nick string) bool {
	if !strings.Contains(line, serviceNick) && !strings.Contains(line, strings.ToLower(serviceNick)) {
		return false
	}

	parts := strings.SplitN(line, " ", 4)
	if len(parts) < 4 {
		return false
	}
	sender := strings.TrimPrefix(parts[0], ":")
	verb := parts[1]
	target := parts[2]

	if verb != "NOTICE" && verb != "PRIVMSG" {
		return false
	}
	if target != nick {
		return false
	}
	return strings.Contains(sender, serviceNick) || strings.HasSuffix(sender, serviceHostSuffix)
}
