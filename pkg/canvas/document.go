package canvas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultVersion is the wire-format version tag inserted when a generated
// document omits one.
const DefaultVersion = "5.3.0"

// Document is a complete banner: a fixed canvas and an ordered sequence of
// elements. Later elements render on top of earlier ones.
type Document struct {
	Version string     `json:"version,omitempty"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Objects []*Element `json:"objects"`
}

// Clone returns a deep copy of the document. Repair operates on clones so
// callers keep their original candidate intact.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Version: d.Version, Width: d.Width, Height: d.Height}
	if d.Objects != nil {
		out.Objects = make([]*Element, len(d.Objects))
		for i, el := range d.Objects {
			out.Objects[i] = el.Clone()
		}
	}
	return out
}

// Placed is an element paired with its location in the tree: the JSON-path
// style address used in violation reports, the accumulated parent offset,
// and the element's absolute bounding box.
type Placed struct {
	Element    *Element
	Path       string
	ParentLeft float64
	ParentTop  float64
	Box        BBox
}

// Walk visits every element depth-first in document order, groups before
// their children. The callback receives each element with its path and
// accumulated parent offset.
func (d *Document) Walk(fn func(p Placed)) {
	walkElements(d.Objects, "objects", 0, 0, fn)
}

// Flatten returns every non-group element with its absolute geometry, in
// document order. Group containers themselves are excluded; their offsets
// are folded into the children.
func (d *Document) Flatten() []Placed {
	var out []Placed
	d.Walk(func(p Placed) {
		if !p.Element.IsGroup() {
			out = append(out, p)
		}
	})
	return out
}

// Textboxes returns every textual element with its absolute geometry, in
// document order.
func (d *Document) Textboxes() []Placed {
	var out []Placed
	d.Walk(func(p Placed) {
		if p.Element.IsText() {
			out = append(out, p)
		}
	})
	return out
}

func walkElements(els []*Element, prefix string, parentLeft, parentTop float64, fn func(p Placed)) {
	for i, el := range els {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		fn(Placed{
			Element:    el,
			Path:       path,
			ParentLeft: parentLeft,
			ParentTop:  parentTop,
			Box:        Bounds(el, parentLeft, parentTop),
		})
		if el.IsGroup() && len(el.Objects) > 0 {
			walkElements(el.Objects, path+".objects", parentLeft+el.Left, parentTop+el.Top, fn)
		}
	}
}

// Decode parses a document from strict JSON.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// DecodeText parses a document from raw collaborator output, stripping
// markdown code fences first. Generative models habitually wrap JSON in
// ```json blocks despite instructions not to.
func DecodeText(raw string) (*Document, error) {
	return Decode([]byte(StripFences(raw)))
}

// Encode serializes the document to its JSON wire format.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// EncodeIndent serializes the document with indentation for files and
// human inspection.
func (d *Document) EncodeIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// StripFences removes surrounding markdown code fences (``` or ```json)
// from raw model output, returning the trimmed inner text.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && len(strings.TrimSpace(s[:idx])) <= len("json") {
		// Drop the language tag on the opening fence line.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
