package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	lineContinuation = regexp.MustCompile(`\\\r?\n\s*`)
	leadingCurl      = regexp.MustCompile(`^\s*curl\s+`)
)

// Tokenize splits a command line into arguments.
//
// A leading "curl" and backslash-newline continuations are removed first.
// Arguments are separated by whitespace outside quotes. Single and double
// quotes group text and are dropped; a quote of the other kind inside a
// quoted span is literal. A backslash escapes the next character and is
// dropped, except that an escaped newline disappears entirely.
func Tokenize(command string) []string {
	command = strings.TrimSpace(command)
	command = lineContinuation.ReplaceAllString(command, "")
	command = leadingCurl.ReplaceAllString(command, "")

	var (
		tokens  []string
		current strings.Builder
		started bool
		quote   rune
		escaped bool
	)

	for _, r := range command {
		if escaped {
			if r != '\n' {
				current.WriteRune(r)
				started = true
			}
			escaped = false
			continue
		}

		switch {
		case r == '\\':
			escaped = true
		case (r == '"' || r == '\'') && (quote == 0 || r == quote):
			if quote == 0 {
				quote = r
			} else {
				quote = 0
			}
			started = true
		case quote == 0 && unicode.IsSpace(r):
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if started {
		tokens = append(tokens, current.String())
	}
	return tokens
}
