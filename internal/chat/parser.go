package chat

import (
	"strings"
	"unicode"
)

// Invocation is one parsed command: the name after the slash and the raw,
// unsplit argument text. Derived per-prompt, never persisted.
type Invocation struct {
	Name    string
	RawArgs string
}

// ParseInvocation parses the remainder of a prompt after the command
// prefix, e.g. "/update 123 hello world". The second return is false when
// the remainder does not look like a slash command at all.
func ParseInvocation(rest string) (Invocation, bool) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "/") {
		return Invocation{}, false
	}

	name, rawArgs := cutToken(rest)
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return Invocation{}, false
	}

	return Invocation{Name: strings.ToLower(name), RawArgs: rawArgs}, true
}

// cutToken splits off the first whitespace-delimited token and returns it
// with the trimmed remainder.
func cutToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end == -1 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}

// SplitArgs splits a raw argument string into tokens, respecting single
// and double quotes so arguments may contain spaces.
func SplitArgs(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingle, inDouble bool

	for _, char := range input {
		switch {
		case char == '\'' && !inDouble:
			inSingle = !inSingle
		case char == '"' && !inSingle:
			inDouble = !inDouble
		case unicode.IsSpace(char) && !inSingle && !inDouble:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
