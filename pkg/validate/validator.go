package validate

import (
	"fmt"
	"sort"

	"github.com/easelhq/easel/pkg/canvas"
)

// Validator runs the full rule set against a document. The zero value is
// not usable; construct with New or Default.
type Validator struct {
	policy Policy
}

// New creates a validator with the given policy.
func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Default creates a validator with DefaultPolicy.
func Default() *Validator {
	return New(DefaultPolicy())
}

// Policy returns the validator's policy.
func (v *Validator) Policy() Policy { return v.policy }

// Validate checks doc against the expected canvas resolution and returns
// whether it passed along with every violation found. The checks are
// independent; their results are concatenated in a fixed order so output
// is deterministic, but no check depends on another.
func (v *Validator) Validate(doc *canvas.Document, width, height int) (bool, []Violation) {
	if doc == nil {
		return false, []Violation{{Category: CategoryStructure, Message: "document is missing"}}
	}

	var violations []Violation
	violations = append(violations, checkStructure(doc, width, height)...)
	violations = append(violations, checkBoundary(doc, width, height)...)
	violations = append(violations, checkGradients(doc)...)
	violations = append(violations, checkTextTypes(doc)...)
	violations = append(violations, checkColors(doc)...)
	violations = append(violations, v.checkOverlap(doc)...)
	violations = append(violations, v.checkTextGaps(doc)...)

	return len(violations) == 0, violations
}

var knownTypes = map[string]bool{
	canvas.TypeRect:       true,
	canvas.TypeImage:      true,
	canvas.TypeTextbox:    true,
	canvas.TypeGroup:      true,
	canvas.TypeLegacyText: true, // reported by the text-type check, not as unknown
}

func checkStructure(doc *canvas.Document, width, height int) []Violation {
	var out []Violation
	if doc.Version == "" {
		out = append(out, Violation{Category: CategoryStructure, Message: "missing version tag"})
	}
	if doc.Objects == nil {
		out = append(out, Violation{Category: CategoryStructure, Message: "objects sequence is missing"})
	}
	if doc.Width != width || doc.Height != height {
		out = append(out, Violation{
			Category: CategoryStructure,
			Message:  fmt.Sprintf("canvas is %dx%d, expected %dx%d", doc.Width, doc.Height, width, height),
		})
	}
	doc.Walk(func(p canvas.Placed) {
		if !knownTypes[p.Element.Type] {
			out = append(out, Violation{
				Category: CategoryStructure,
				Path:     p.Path,
				Message:  fmt.Sprintf("unknown element type %q", p.Element.Type),
			})
		}
	})
	return out
}

// checkBoundary verifies the containment invariant for every element,
// recursively. Negative origins are reported separately from overflow so
// the repairer can clamp and slide independently.
func checkBoundary(doc *canvas.Document, width, height int) []Violation {
	w, h := float64(width), float64(height)
	var out []Violation
	doc.Walk(func(p canvas.Placed) {
		if p.Box.Left < 0 {
			out = append(out, Violation{
				Category: CategoryBoundary,
				Path:     p.Path,
				Message:  fmt.Sprintf("left edge at %.1f is negative", p.Box.Left),
			})
		}
		if p.Box.Top < 0 {
			out = append(out, Violation{
				Category: CategoryBoundary,
				Path:     p.Path,
				Message:  fmt.Sprintf("top edge at %.1f is negative", p.Box.Top),
			})
		}
		if p.Box.Right > w {
			out = append(out, Violation{
				Category: CategoryBoundary,
				Path:     p.Path,
				Message:  fmt.Sprintf("right edge at %.1f overflows canvas width %d", p.Box.Right, width),
			})
		}
		if p.Box.Bottom > h {
			out = append(out, Violation{
				Category: CategoryBoundary,
				Path:     p.Path,
				Message:  fmt.Sprintf("bottom edge at %.1f overflows canvas height %d", p.Box.Bottom, height),
			})
		}
	})
	return out
}

func checkGradients(doc *canvas.Document) []Violation {
	var out []Violation
	doc.Walk(func(p canvas.Placed) {
		g := gradientOf(p.Element)
		if g == nil {
			return
		}
		if g.Type != canvas.GradientLinear && g.Type != canvas.GradientRadial {
			out = append(out, Violation{
				Category: CategoryGradient,
				Path:     p.Path,
				Message:  fmt.Sprintf("unknown gradient type %q", g.Type),
			})
		}
		if g.LegacyStops != nil {
			out = append(out, Violation{
				Category: CategoryGradient,
				Path:     p.Path,
				Message:  "colorStops is a keyed mapping, must be an ordered sequence",
			})
			return
		}
		if len(g.Stops) == 0 {
			out = append(out, Violation{
				Category: CategoryGradient,
				Path:     p.Path,
				Message:  "gradient has no color stops",
			})
			return
		}
		for i, stop := range g.Stops {
			if stop.Color == "" {
				out = append(out, Violation{
					Category: CategoryGradient,
					Path:     p.Path,
					Message:  fmt.Sprintf("color stop %d has no color", i),
				})
			}
			if stop.Offset < 0 || stop.Offset > 1 {
				out = append(out, Violation{
					Category: CategoryGradient,
					Path:     p.Path,
					Message:  fmt.Sprintf("color stop %d offset %.2f outside [0, 1]", i, stop.Offset),
				})
			}
		}
	})
	return out
}

func checkTextTypes(doc *canvas.Document) []Violation {
	var out []Violation
	doc.Walk(func(p canvas.Placed) {
		if p.Element.Type == canvas.TypeLegacyText {
			out = append(out, Violation{
				Category: CategoryTextType,
				Path:     p.Path,
				Message:  `legacy "text" element, must be "textbox"`,
			})
		}
	})
	return out
}

func checkColors(doc *canvas.Document) []Violation {
	var out []Violation
	doc.Walk(func(p canvas.Placed) {
		if f := p.Element.Fill; f != nil && f.Gradient == nil && !canvas.ValidColor(f.Color) {
			out = append(out, Violation{
				Category: CategoryColor,
				Path:     p.Path,
				Message:  fmt.Sprintf("fill %q is not #RRGGBB or rgba(...)", f.Color),
			})
		}
		if s := p.Element.Stroke; s != "" && !canvas.ValidColor(s) {
			out = append(out, Violation{
				Category: CategoryColor,
				Path:     p.Path,
				Message:  fmt.Sprintf("stroke %q is not #RRGGBB or rgba(...)", s),
			})
		}
	})
	return out
}

// checkOverlap flags any two leaf elements whose padded boxes intersect,
// unless the pair is exempted by the policy allow-list. Paint order
// decides which element is "under": the one earlier in the document.
func (v *Validator) checkOverlap(doc *canvas.Document) []Violation {
	leaves := doc.Flatten()
	var out []Violation
	for i := 0; i < len(leaves); i++ {
		for j := i + 1; j < len(leaves); j++ {
			under, over := leaves[i], leaves[j]
			if !under.Box.Pad(v.policy.MinSpacing).Intersects(over.Box) {
				continue
			}
			if v.policy.Allows(typeForPolicy(under.Element), typeForPolicy(over.Element)) {
				continue
			}
			out = append(out, Violation{
				Category: CategoryOverlap,
				Path:     over.Path,
				Message: fmt.Sprintf("%s at %s within %.0fpx of %s at %s",
					over.Element.Type, over.Path, v.policy.MinSpacing, under.Element.Type, under.Path),
			})
		}
	}
	return out
}

// checkTextGaps enforces minimum vertical spacing between textboxes
// sorted by top position, regardless of horizontal overlap. Adjacent
// captions stacked at different horizontal offsets are the common failure
// mode the pairwise check misses.
func (v *Validator) checkTextGaps(doc *canvas.Document) []Violation {
	boxes := doc.Textboxes()
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Box.Top < boxes[j].Box.Top })

	var out []Violation
	for i := 1; i < len(boxes); i++ {
		prev, cur := boxes[i-1], boxes[i]
		gap := cur.Box.Top - prev.Box.Bottom
		if gap < v.policy.TextGap {
			out = append(out, Violation{
				Category: CategoryOverlap,
				Path:     cur.Path,
				Message: fmt.Sprintf("vertical gap %.1fpx to text at %s is under the %.0fpx minimum",
					gap, prev.Path, v.policy.TextGap),
			})
		}
	}
	return out
}

// typeForPolicy maps the legacy text kind onto textbox so allow-list
// entries written for textboxes apply before repair runs.
func typeForPolicy(e *canvas.Element) string {
	if e.Type == canvas.TypeLegacyText {
		return canvas.TypeTextbox
	}
	return e.Type
}

func gradientOf(e *canvas.Element) *canvas.Gradient {
	if e.Fill == nil {
		return nil
	}
	return e.Fill.Gradient
}
