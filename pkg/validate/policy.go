package validate

// AllowedPair exempts an element-type pair from the overlap check.
// Under is the type earlier in paint order (rendered beneath), Over the
// later one. Exempt pairs represent intentional layering: backgrounds,
// scrims, and decorative plates under text.
type AllowedPair struct {
	Under string `toml:"under"`
	Over  string `toml:"over"`
}

// Policy holds the tunable parts of the rule set. The overlap allow-list
// in particular is product policy rather than geometry, so it is carried
// as configuration instead of being hard-coded.
type Policy struct {
	// MinSpacing is the required clearance between any two non-exempt
	// element boxes, in pixels.
	MinSpacing float64 `toml:"min_spacing"`

	// TextGap is the minimum vertical gap between top-sorted textboxes,
	// enforced even when their horizontal projections do not overlap.
	TextGap float64 `toml:"text_gap"`

	// Allow lists the element-type pairs whose overlap is acceptable.
	Allow []AllowedPair `toml:"allow"`
}

// DefaultPolicy returns the stock rule set: 20px element clearance, 30px
// vertical text gap, and the standard layering exemptions.
func DefaultPolicy() Policy {
	return Policy{
		MinSpacing: 20,
		TextGap:    30,
		Allow: []AllowedPair{
			{Under: "image", Over: "image"},
			{Under: "rect", Over: "image"},
			{Under: "rect", Over: "textbox"},
			{Under: "image", Over: "textbox"},
		},
	}
}

// Allows reports whether an overlap between an element of type under
// (earlier in paint order) and one of type over is exempt.
func (p Policy) Allows(under, over string) bool {
	for _, pair := range p.Allow {
		if pair.Under == under && pair.Over == over {
			return true
		}
	}
	return false
}
