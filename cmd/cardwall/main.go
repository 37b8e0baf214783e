package main

import (
	"os"
	"strings"

	"cardwall-cli/internal/cli"
)

func isTagToken(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "#") && len(s) > 1
}

// rewriteDirectTagArgs makes `cardwall '#tag'` work like
// `cardwall view --tag tag`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Users often pass persistent flags first
// (e.g. `cardwall --dir ... '#tag'`), so we find the first positional token,
// not just argv[1].
func rewriteDirectTagArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir": true,
	}
	boolFlags := map[string]bool{
		"--verbose": true,
		"-v":        true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isTagToken(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "view", "--tag", strings.TrimPrefix(strings.TrimSpace(argv[i+1]), "#"))
				out = append(out, argv[i+2:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form carries its own value.
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isTagToken(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "view", "--tag", strings.TrimPrefix(a, "#"))
			out = append(out, argv[i+1:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectTagArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
