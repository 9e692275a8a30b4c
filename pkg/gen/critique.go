package gen

import (
	"fmt"
	"strings"

	"github.com/easelhq/easel/pkg/canvas"
)

// Critique is a parsed critic verdict.
type Critique struct {
	Passed   bool
	Feedback string
}

// ParseCritique normalizes a raw critic answer. Accepted forms:
//
//	PASS
//	CONTINUE: <feedback>
//
// Matching is case-insensitive and tolerates surrounding whitespace and
// markdown fences. Anything else is an error; the caller decides
// whether to retry or to keep the current candidate.
func ParseCritique(raw string) (Critique, error) {
	s := strings.TrimSpace(canvas.StripFences(raw))

	if strings.EqualFold(s, "PASS") {
		return Critique{Passed: true}, nil
	}

	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "CONTINUE") {
		rest := strings.TrimSpace(s[len("CONTINUE"):])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest == "" {
			return Critique{}, fmt.Errorf("critique continues without feedback")
		}
		return Critique{Feedback: rest}, nil
	}

	return Critique{}, fmt.Errorf("unrecognized critique verdict %q", truncate(s, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
