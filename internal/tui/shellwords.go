package tui

import "strings"

// splitShellWords splits a command line into words, honoring single and
// double quotes. It covers EDITOR values like `code --wait` or
// `emacsclient -a ""` without pulling in a full shell parser.
func splitShellWords(s string) []string {
	var (
		words   []string
		cur     strings.Builder
		quote   rune
		hasWord bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			hasWord = true
		case r == ' ' || r == '\t':
			if hasWord {
				words = append(words, cur.String())
				cur.Reset()
				hasWord = false
			}
		default:
			cur.WriteRune(r)
			hasWord = true
		}
	}
	if hasWord {
		words = append(words, cur.String())
	}
	return words
}
