// Package canvas defines the banner document model: a fixed-size canvas
// holding an ordered tree of positioned elements (rectangles, images,
// text boxes, and groups).
//
// The package is the single source of geometric truth for the engine.
// Every component that needs an element's position or extent goes through
// [Bounds], which resolves scale factors, estimated text height, and
// accumulated group offsets in one place. Keeping boundary math here
// prevents the validator and repairer from drifting apart.
//
// Documents are decoded from the JSON wire format produced by generative
// collaborators (see [DecodeText]), which tolerates markdown code fences
// and the legacy keyed-map form of gradient color stops.
package canvas
