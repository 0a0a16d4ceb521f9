package main

import (
	"strings"
)

// simpleError is a small sentinel error type, used where we want
// identity-comparable errors (errors.New from the stdlib works fine for
// this too; this just keeps naming consistent with the rest of the
// package).
type simpleError string

func (e simpleError) Error() string { return string(e) }

func newSimpleError(s string) error { return simpleError(s) }

// hasWhitespace reports whether s contains any whitespace character.
func hasWhitespace(s string) bool {
	return strings.ContainsAny(s, " \t\r\n\v\f")
}

// wrapText paragraph-wraps text at the given column width, splitting on
// blank-line-delimited paragraphs the way original_source's message
// reader does (textwrap.wrap per paragraph).
func wrapText(text string, width int) []string {
	var out []string
	paragraphs := strings.Split(text, "\n\n")
	for i, para := range paragraphs {
		line := strings.Join(strings.Fields(para), " ")
		out = append(out, wrapLine(line, width)...)
		if i+1 < len(paragraphs) {
			out = append(out, "")
		}
	}
	return out
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() == 0 {
			cur.WriteString(w)
			continue
		}
		if cur.Len()+1+len(w) > width {
			out = append(out, cur.String())
			cur.Reset()
			cur.WriteString(w)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// truncate shortens s to at most n runes, appending "..." if it was cut.
func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}

// affirmative reports whether a yes/no prompt's answer counts as "yes",
// mirroring original_source's `answer in ('yes', 'true', '1')`.
func affirmative(s string) bool {
	switch s {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
