package repair

import (
	"sort"

	"github.com/easelhq/easel/pkg/canvas"
)

// ResolveTextOverlaps repositions colliding textboxes by vertical
// stacking and returns the mutated document.
//
// Textboxes are sorted by top position; that order is the resolver's only
// notion of reading sequence, with ties broken by document order. Each
// box is pushed below every earlier box it crowds, and a box that ends up
// too close to the canvas bottom gets a single font-shrink attempt rather
// than being pushed further off-canvas. One pass does not guarantee zero
// overlaps when there is simply more text than vertical space; the
// residual shows up in the next validation pass instead of being hidden.
func ResolveTextOverlaps(doc *canvas.Document, width, height int, opts Options) *canvas.Document {
	boxes := doc.Textboxes()
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Box.Top < boxes[j].Box.Top })

	limit := float64(height) - opts.BottomMargin

	for i := range boxes {
		cur := &boxes[i]
		for j := 0; j < i; j++ {
			earlier := boxes[j]
			if cur.Box.Top-earlier.Box.Bottom < opts.MinTextSpacing {
				moveTop(cur, earlier.Box.Bottom+opts.MinTextSpacing)
			}
		}

		if cur.Box.Bottom > limit {
			shrinkFont(cur, opts)
		}
	}

	return doc
}

// moveTop places the element so its absolute top is at absTop and
// refreshes the cached box.
func moveTop(p *canvas.Placed, absTop float64) {
	p.Element.Top = absTop - p.ParentTop
	p.Box = canvas.Bounds(p.Element, p.ParentLeft, p.ParentTop)
}

// shrinkFont applies the single fallback shrink: multiply the font size
// once, floored at the readable minimum, and recompute the element's
// effective height from the new size. The resolver does not iterate
// shrink-then-reposition to convergence.
func shrinkFont(p *canvas.Placed, opts Options) {
	el := p.Element
	if el.FontSize <= 0 {
		return
	}
	shrunk := el.FontSize * opts.FontScale
	if shrunk < opts.MinFontSize {
		shrunk = opts.MinFontSize
	}
	if shrunk >= el.FontSize {
		return
	}
	el.FontSize = shrunk

	// Lower the declared height to the new text estimate, otherwise the
	// old declared box would keep dominating the effective height.
	if est := el.EstimatedTextHeight(); est > 0 {
		sy := el.ScaleY
		if sy == 0 {
			sy = 1
		}
		if el.Height*sy > est {
			el.Height = est / sy
		}
	}
	p.Box = canvas.Bounds(el, p.ParentLeft, p.ParentTop)
}
