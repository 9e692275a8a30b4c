// Package repair applies deterministic fixes to banner documents based on
// the violations the validator reported.
//
// Repair never mutates its input: it deep-copies the document and fixes
// what it can without external judgment. A single pass can leave newly
// introduced violations behind (sliding one element can create a fresh
// overlap), so the refinement controller re-validates after every pass;
// the repairer itself never does.
package repair

import (
	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/validate"
)

// Options holds the tunable limits for repair and text-overlap resolution.
type Options struct {
	// MinTextSpacing is the vertical clearance the overlap resolver
	// enforces between stacked textboxes.
	MinTextSpacing float64 `toml:"min_text_spacing"`

	// BottomMargin is the clearance kept between the last textbox and the
	// canvas bottom before the font-shrink fallback kicks in.
	BottomMargin float64 `toml:"bottom_margin"`

	// FontScale is the multiplier applied on the single shrink attempt.
	FontScale float64 `toml:"font_scale"`

	// MinFontSize is the readability floor below which fonts are never
	// shrunk.
	MinFontSize float64 `toml:"min_font_size"`

	// MinWidth and MinHeight are the floors below which an oversized
	// element is left intruding rather than shrunk further.
	MinWidth  float64 `toml:"min_width"`
	MinHeight float64 `toml:"min_height"`
}

// DefaultOptions returns the stock repair limits.
func DefaultOptions() Options {
	return Options{
		MinTextSpacing: 40,
		BottomMargin:   40,
		FontScale:      0.8,
		MinFontSize:    24,
		MinWidth:       50,
		MinHeight:      20,
	}
}

// Repair returns a copy of doc with every deterministically fixable
// violation addressed. Fixes are keyed by violation category; categories
// not present in the violation set are skipped, so repairing a clean
// document is the identity.
func Repair(doc *canvas.Document, violations []validate.Violation, width, height int, opts Options) *canvas.Document {
	out := doc.Clone()
	if out == nil {
		return nil
	}

	present := validate.CountByCategory(violations)

	if present[validate.CategoryStructure] > 0 {
		repairStructure(out, width, height)
	}
	if present[validate.CategoryGradient] > 0 {
		repairGradients(out)
	}
	if present[validate.CategoryTextType] > 0 {
		repairTextTypes(out)
	}
	if present[validate.CategoryBoundary] > 0 {
		repairBoundary(out, width, height, opts)
	}
	if present[validate.CategoryOverlap] > 0 {
		ResolveTextOverlaps(out, width, height, opts)
	}

	return out
}

// repairStructure inserts defaults for missing top-level fields and
// forces the declared canvas to the expected resolution. The canvas is
// the authority the document must match, never the other way around.
func repairStructure(doc *canvas.Document, width, height int) {
	if doc.Version == "" {
		doc.Version = canvas.DefaultVersion
	}
	if doc.Objects == nil {
		doc.Objects = []*canvas.Element{}
	}
	doc.Width = width
	doc.Height = height
}

func repairGradients(doc *canvas.Document) {
	doc.Walk(func(p canvas.Placed) {
		if p.Element.Fill != nil && p.Element.Fill.Gradient != nil {
			p.Element.Fill.Gradient.NormalizeStops()
		}
	})
}

func repairTextTypes(doc *canvas.Document) {
	doc.Walk(func(p canvas.Placed) {
		if p.Element.Type == canvas.TypeLegacyText {
			p.Element.Type = canvas.TypeTextbox
			if p.Element.LineHeight == 0 {
				p.Element.LineHeight = canvas.DefaultLineHeight
			}
		}
	})
}

// repairBoundary clamps negative origins to zero, then handles overflow
// on the right/bottom edge: slide the element flush with the canvas edge
// when it fits at full size, otherwise shrink the scale factor to fit
// exactly, otherwise shrink the raw dimension down to the available span.
// Below the size floors the element is left intruding; losing it entirely
// would be worse than a visible defect.
func repairBoundary(doc *canvas.Document, width, height int, opts Options) {
	w, h := float64(width), float64(height)
	doc.Walk(func(p canvas.Placed) {
		el := p.Element

		// Clamp negative origins first so the available span below is
		// measured from the final position.
		if p.ParentLeft+el.Left < 0 {
			el.Left = -p.ParentLeft
		}
		if p.ParentTop+el.Top < 0 {
			el.Top = -p.ParentTop
		}

		absLeft := p.ParentLeft + el.Left
		absTop := p.ParentTop + el.Top

		if absLeft+el.EffectiveWidth() > w {
			if el.EffectiveWidth() <= w {
				el.Left = (w - el.EffectiveWidth()) - p.ParentLeft
			} else if el.ScaleX != 0 && el.ScaleX != 1 && el.Width > 0 {
				el.ScaleX = (w - absLeft) / el.Width
			} else if w-absLeft >= opts.MinWidth {
				el.Width = w - absLeft
			}
		}

		if absTop+el.EffectiveHeight() > h {
			if el.EffectiveHeight() <= h {
				el.Top = (h - el.EffectiveHeight()) - p.ParentTop
			} else if el.ScaleY != 0 && el.ScaleY != 1 && el.Height > 0 {
				el.ScaleY = (h - absTop) / el.Height
			} else if h-absTop >= opts.MinHeight {
				el.Height = h - absTop
			}
		}
	})
}
