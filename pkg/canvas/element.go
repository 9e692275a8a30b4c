package canvas

import (
	"encoding/json"
	"strings"
)

// Element type discriminators used in the wire format.
const (
	TypeRect    = "rect"
	TypeImage   = "image"
	TypeTextbox = "textbox"
	TypeGroup   = "group"

	// TypeLegacyText is the deprecated plain-text kind. Documents may still
	// arrive with it; the validator flags it and the repairer retypes it to
	// a textbox.
	TypeLegacyText = "text"
)

// Default values applied during decoding when the wire format omits a field.
const (
	DefaultScale      = 1.0
	DefaultLineHeight = 1.2
)

// Element is a single positioned object on the canvas. The Type field
// discriminates the variant; fields that don't apply to a variant are left
// at their zero value and omitted on encode.
//
// Left and Top are relative to the enclosing group (or the canvas for
// top-level elements). Width and Height are the raw declared dimensions;
// use EffectiveWidth and EffectiveHeight for anything geometric, since
// those fold in the scale factors.
type Element struct {
	Type   string  `json:"type"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ScaleX float64 `json:"scaleX,omitempty"`
	ScaleY float64 `json:"scaleY,omitempty"`

	Fill   *Fill  `json:"fill,omitempty"`
	Stroke string `json:"stroke,omitempty"`

	// Textbox fields.
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`

	// Image fields.
	Src string `json:"src,omitempty"`

	// Group children, in paint order (later children render on top).
	Objects []*Element `json:"objects,omitempty"`
}

// elementAlias avoids UnmarshalJSON recursion.
type elementAlias Element

// UnmarshalJSON decodes an element and applies wire-format defaults:
// missing scale factors become 1 and a textbox without a line height
// gets the standard 1.2.
func (e *Element) UnmarshalJSON(data []byte) error {
	alias := elementAlias{ScaleX: DefaultScale, ScaleY: DefaultScale}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*e = Element(alias)
	if e.IsText() && e.LineHeight == 0 {
		e.LineHeight = DefaultLineHeight
	}
	return nil
}

// IsGroup reports whether the element is a group container.
func (e *Element) IsGroup() bool { return e.Type == TypeGroup }

// IsText reports whether the element is textual, counting the legacy
// plain-text kind so that geometry stays consistent before repair.
func (e *Element) IsText() bool {
	return e.Type == TypeTextbox || e.Type == TypeLegacyText
}

// EffectiveWidth returns the rendered horizontal extent: width scaled by
// scaleX. A zero scale means "unset" and is treated as 1.
func (e *Element) EffectiveWidth() float64 {
	return e.Width * scaleOrDefault(e.ScaleX)
}

// EffectiveHeight returns the rendered vertical extent. For textual
// elements this is never less than the estimated rendered text height,
// because generators routinely under-declare the box and the text spills
// past it.
func (e *Element) EffectiveHeight() float64 {
	h := e.Height * scaleOrDefault(e.ScaleY)
	if e.IsText() {
		if est := e.EstimatedTextHeight(); est > h {
			return est
		}
	}
	return h
}

// EstimatedTextHeight returns fontSize * lineHeight * lineCount for textual
// elements, and 0 for everything else.
func (e *Element) EstimatedTextHeight() float64 {
	if !e.IsText() || e.FontSize <= 0 {
		return 0
	}
	lh := e.LineHeight
	if lh == 0 {
		lh = DefaultLineHeight
	}
	return e.FontSize * lh * float64(LineCount(e.Text))
}

// LineCount returns the number of rendered lines in text. Empty text still
// occupies one line.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

// Clone returns a deep copy of the element, including children and fill.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := *e
	out.Fill = e.Fill.Clone()
	if e.Objects != nil {
		out.Objects = make([]*Element, len(e.Objects))
		for i, child := range e.Objects {
			out.Objects[i] = child.Clone()
		}
	}
	return &out
}

func scaleOrDefault(s float64) float64 {
	if s == 0 {
		return DefaultScale
	}
	return s
}
