package canvas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Gradient type discriminators.
const (
	GradientLinear = "linear"
	GradientRadial = "radial"
)

// Fill is either a flat color string or a gradient. Exactly one of Color
// and Gradient is set.
type Fill struct {
	Color    string
	Gradient *Gradient
}

// FlatColor returns a Fill holding a plain color string.
func FlatColor(c string) *Fill { return &Fill{Color: c} }

// IsGradient reports whether the fill is a gradient.
func (f *Fill) IsGradient() bool { return f != nil && f.Gradient != nil }

// Clone returns a deep copy of the fill.
func (f *Fill) Clone() *Fill {
	if f == nil {
		return nil
	}
	out := &Fill{Color: f.Color}
	if f.Gradient != nil {
		g := *f.Gradient
		g.Stops = append([]ColorStop(nil), f.Gradient.Stops...)
		if f.Gradient.LegacyStops != nil {
			g.LegacyStops = make(map[string]string, len(f.Gradient.LegacyStops))
			for k, v := range f.Gradient.LegacyStops {
				g.LegacyStops[k] = v
			}
		}
		out.Gradient = &g
	}
	return out
}

// UnmarshalJSON accepts a JSON string (flat color) or object (gradient).
func (f *Fill) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.Color)
	}
	f.Gradient = &Gradient{}
	return json.Unmarshal(data, f.Gradient)
}

// MarshalJSON emits the flat color string or the gradient object.
func (f *Fill) MarshalJSON() ([]byte, error) {
	if f.Gradient != nil {
		return json.Marshal(f.Gradient)
	}
	return json.Marshal(f.Color)
}

// ColorStop is one entry in a gradient ramp. Offset is in [0, 1].
type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// GradientCoords holds the geometry of a gradient axis. Linear gradients
// use the two endpoints; radial gradients additionally use the radii.
type GradientCoords struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	R1 float64 `json:"r1,omitempty"`
	R2 float64 `json:"r2,omitempty"`
}

// Gradient is a linear or radial color ramp.
//
// Color stops must be an ordered sequence on the wire. The deprecated
// keyed-map form ({"0": "#FFFFFF", "1": "#000000"}) is still decoded, but
// lands in LegacyStops so the validator can flag it and the repairer can
// normalize it; it is never silently promoted to Stops.
type Gradient struct {
	Type   string         `json:"type"`
	Coords GradientCoords `json:"coords"`
	Stops  []ColorStop    `json:"-"`

	// LegacyStops holds the keyed-map representation when present.
	// Nil once the gradient is in canonical form.
	LegacyStops map[string]string `json:"-"`
}

type gradientWire struct {
	Type   string          `json:"type"`
	Coords GradientCoords  `json:"coords"`
	Stops  json.RawMessage `json:"colorStops,omitempty"`
}

// UnmarshalJSON decodes a gradient, accepting colorStops as either an
// ordered sequence or the legacy keyed map.
func (g *Gradient) UnmarshalJSON(data []byte) error {
	var wire gradientWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.Type = wire.Type
	g.Coords = wire.Coords
	g.Stops = nil
	g.LegacyStops = nil

	if len(wire.Stops) == 0 {
		return nil
	}
	switch wire.Stops[0] {
	case '[':
		return json.Unmarshal(wire.Stops, &g.Stops)
	case '{':
		return json.Unmarshal(wire.Stops, &g.LegacyStops)
	default:
		return fmt.Errorf("colorStops: unexpected JSON value %q", string(wire.Stops))
	}
}

// MarshalJSON encodes the gradient, preserving the legacy map form until
// the repairer normalizes it so that unrepaired documents round-trip.
func (g *Gradient) MarshalJSON() ([]byte, error) {
	var stops json.RawMessage
	var err error
	switch {
	case g.Stops != nil:
		stops, err = json.Marshal(g.Stops)
	case g.LegacyStops != nil:
		stops, err = json.Marshal(g.LegacyStops)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(gradientWire{Type: g.Type, Coords: g.Coords, Stops: stops})
}

// NormalizeStops converts the legacy keyed map into an ordered stop
// sequence sorted by numeric offset. Entries with unparseable offset keys
// are dropped. Gradients already in canonical form are left untouched.
func (g *Gradient) NormalizeStops() {
	if g.LegacyStops == nil {
		return
	}
	stops := make([]ColorStop, 0, len(g.LegacyStops))
	for key, color := range g.LegacyStops {
		offset, err := strconv.ParseFloat(key, 64)
		if err != nil {
			continue
		}
		stops = append(stops, ColorStop{Offset: offset, Color: color})
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Offset < stops[j].Offset })
	g.Stops = stops
	g.LegacyStops = nil
}
