package console

import (
	"fmt"
	"strings"
	"unicode"
)

// Tokenize splits a command line with shell-style quoting: single quotes are
// literal, double quotes honor backslash escapes, a bare backslash escapes
// the next character. Unterminated quotes are an error.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '\'':
			inToken = true
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\'' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("unterminated single quote")
			}
			current.WriteString(string(runes[i+1 : end]))
			i = end

		case r == '"':
			inToken = true
			closed := false
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
					current.WriteRune(runes[i+1])
					i++
					continue
				}
				if runes[i] == '"' {
					closed = true
					break
				}
				current.WriteRune(runes[i])
			}
			if !closed {
				return nil, fmt.Errorf("unterminated double quote")
			}

		case r == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("trailing backslash")
			}
			inToken = true
			current.WriteRune(runes[i+1])
			i++

		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}

		default:
			inToken = true
			current.WriteRune(r)
		}
	}

	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
