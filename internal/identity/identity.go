// Package identity resolves external participant and bot identifiers.
package identity

// UnknownBot is returned for session creation when no bot token was supplied.
const UnknownBot = "UnknownBot"

// NoParticipant is the sentinel used when no participant id field is present.
const NoParticipant = "NO_PID"

// botIDs maps the short bot-number tokens used in survey URLs to stable
// bot identifiers.
var botIDs = map[string]string{
	"1": "LongBot1",
	"2": "LongBot2",
	"3": "LongBot3",
	"4": "LongBot4",
	"5": "LongBot5",
	"6": "LongBot6",
	"7": "LongBot7",
	"8": "LongBot8",
}

// ResolveBot maps a bot token to its bot identifier. Unknown tokens pass
// through unchanged; identity is not validated beyond the fixed table.
func ResolveBot(token string) string {
	if id, ok := botIDs[token]; ok {
		return id
	}
	return token
}

// ResolveBotOrUnknown is the session-creation variant: an empty token
// resolves to the UnknownBot sentinel instead of passing through.
func ResolveBotOrUnknown(token string) string {
	if token == "" {
		return UnknownBot
	}
	return ResolveBot(token)
}

// ResolveParticipant returns the first non-empty candidate, in the accepted
// priority order (prolific_pid, then test_pid, then pid), falling back to
// the NoParticipant sentinel. Never errors.
func ResolveParticipant(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return NoParticipant
}
