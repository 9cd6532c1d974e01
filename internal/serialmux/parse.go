package serialmux

import "strings"

const (
	EventTypeResult  = "result"
	EventTypeStatus  = "status"
	EventTypeMessage = "message"
	EventTypeUnknown = "unknown"
)

// CommandName returns the command a line starts with: the text before the
// first ':' with any ',' separated arguments removed.
func CommandName(line string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(line), ":")
	name, _, _ = strings.Cut(name, ",")
	return strings.TrimSpace(name)
}

// ResponseName returns the command echoed at the start of a response line,
// or "" when the line carries no ':' separated prefix.
func ResponseName(line string) string {
	if !strings.Contains(line, ":") {
		return ""
	}
	return CommandName(line)
}

// ClassifyPayload inspects a line read from the bridge and returns a simple
// event type token.
func ClassifyPayload(payload string) string {
	switch {
	case strings.EqualFold(ResponseName(payload), "GetAsicError"):
		return EventTypeStatus
	case strings.Contains(payload, "RESULT:"):
		return EventTypeResult
	case strings.TrimSpace(payload) != "":
		return EventTypeMessage
	default:
		return EventTypeUnknown
	}
}
