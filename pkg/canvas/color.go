package canvas

import "regexp"

// Accepted flat color formats: six-digit hex or rgb()/rgba() with an
// optional alpha component.
var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	rgbaRe     = regexp.MustCompile(`^rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*(,\s*(0|1|0?\.\d+)\s*)?\)$`)
)

// ValidColor reports whether s is an acceptable flat color string:
// #RRGGBB or rgba(r,g,b[,a]).
func ValidColor(s string) bool {
	return hexColorRe.MatchString(s) || rgbaRe.MatchString(s)
}
