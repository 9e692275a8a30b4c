package validate

import (
	"strings"
	"testing"

	"github.com/easelhq/easel/pkg/canvas"
)

func validDoc() *canvas.Document {
	return &canvas.Document{
		Version: "5.3.0",
		Width:   1080,
		Height:  1080,
		Objects: []*canvas.Element{
			{Type: canvas.TypeImage, Left: 0, Top: 0, Width: 1080, Height: 1080, ScaleX: 1, ScaleY: 1, Src: "https://cdn.example.com/bg.png"},
			{Type: canvas.TypeTextbox, Left: 100, Top: 100, Width: 600, Height: 60, ScaleX: 1, ScaleY: 1,
				Text: "Grand Opening", FontSize: 48, LineHeight: 1.2, Fill: canvas.FlatColor("#FFFFFF")},
		},
	}
}

func categories(violations []Violation) map[Category]int {
	return CountByCategory(violations)
}

func TestValidateCleanDocument(t *testing.T) {
	ok, violations := Default().Validate(validDoc(), 1080, 1080)
	if !ok {
		t.Fatalf("expected clean document, got violations: %v", violations)
	}
}

func TestValidateNilDocument(t *testing.T) {
	ok, violations := Default().Validate(nil, 100, 100)
	if ok || len(violations) != 1 || violations[0].Category != CategoryStructure {
		t.Fatalf("nil document: ok=%v violations=%v", ok, violations)
	}
}

func TestValidateStructure(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*canvas.Document)
		message string
	}{
		{
			name:    "missing version",
			mutate:  func(d *canvas.Document) { d.Version = "" },
			message: "version",
		},
		{
			name:    "missing objects",
			mutate:  func(d *canvas.Document) { d.Objects = nil },
			message: "objects",
		},
		{
			name:    "canvas mismatch",
			mutate:  func(d *canvas.Document) { d.Width = 999 },
			message: "expected 1080x1080",
		},
		{
			name: "unknown element type",
			mutate: func(d *canvas.Document) {
				d.Objects[1].Type = "blob"
			},
			message: "unknown element type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			ok, violations := Default().Validate(doc, 1080, 1080)
			if ok {
				t.Fatal("expected violations")
			}
			found := false
			for _, v := range violations {
				if v.Category == CategoryStructure && strings.Contains(v.Message, tt.message) {
					found = true
				}
			}
			if !found {
				t.Errorf("no structure violation containing %q in %v", tt.message, violations)
			}
		})
	}
}

func TestValidateBoundary(t *testing.T) {
	doc := validDoc()
	doc.Objects[1].Left = -10
	doc.Objects[1].Top = 1060 // textbox is 60 high, bottom at 1120

	ok, violations := Default().Validate(doc, 1080, 1080)
	if ok {
		t.Fatal("expected boundary violations")
	}

	var negative, overflow bool
	for _, v := range violations {
		if v.Category != CategoryBoundary {
			continue
		}
		if strings.Contains(v.Message, "negative") {
			negative = true
		}
		if strings.Contains(v.Message, "overflows") {
			overflow = true
		}
	}
	if !negative {
		t.Error("negative origin not reported")
	}
	if !overflow {
		t.Error("overflow not reported")
	}
}

func TestValidateBoundaryUsesEffectiveGeometry(t *testing.T) {
	doc := validDoc()
	// Raw size fits, scale pushes it out.
	doc.Objects[1].Width = 600
	doc.Objects[1].ScaleX = 2 // right edge at 100 + 1200 = 1300

	ok, violations := Default().Validate(doc, 1080, 1080)
	if ok {
		t.Fatal("scaled overflow not detected")
	}
	if categories(violations)[CategoryBoundary] == 0 {
		t.Errorf("expected boundary violation, got %v", violations)
	}
}

func TestValidateBoundaryRecursesGroups(t *testing.T) {
	doc := validDoc()
	doc.Objects = append(doc.Objects, &canvas.Element{
		Type: canvas.TypeGroup, Left: 1000, Top: 300,
		Objects: []*canvas.Element{
			{Type: canvas.TypeRect, Left: 50, Top: 0, Width: 100, Height: 50, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#000000")},
		},
	})

	ok, violations := Default().Validate(doc, 1080, 1080)
	if ok {
		t.Fatal("group child overflow not detected")
	}
	found := false
	for _, v := range violations {
		if v.Category == CategoryBoundary && v.Path == "objects[2].objects[0]" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected violation at group child path, got %v", violations)
	}
}

func TestValidateGradient(t *testing.T) {
	tests := []struct {
		name     string
		gradient *canvas.Gradient
		message  string
	}{
		{
			name: "legacy keyed map",
			gradient: &canvas.Gradient{
				Type:        canvas.GradientLinear,
				LegacyStops: map[string]string{"0": "#FFFFFF", "1": "#000000"},
			},
			message: "keyed mapping",
		},
		{
			name:     "no stops",
			gradient: &canvas.Gradient{Type: canvas.GradientRadial},
			message:  "no color stops",
		},
		{
			name: "stop without color",
			gradient: &canvas.Gradient{
				Type:  canvas.GradientLinear,
				Stops: []canvas.ColorStop{{Offset: 0, Color: "#FFFFFF"}, {Offset: 1}},
			},
			message: "has no color",
		},
		{
			name: "offset out of range",
			gradient: &canvas.Gradient{
				Type:  canvas.GradientLinear,
				Stops: []canvas.ColorStop{{Offset: 0, Color: "#FFFFFF"}, {Offset: 1.5, Color: "#000000"}},
			},
			message: "outside [0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			doc.Objects[0].Fill = &canvas.Fill{Gradient: tt.gradient}
			ok, violations := Default().Validate(doc, 1080, 1080)
			if ok {
				t.Fatal("expected gradient violation")
			}
			found := false
			for _, v := range violations {
				if v.Category == CategoryGradient && strings.Contains(v.Message, tt.message) {
					found = true
				}
			}
			if !found {
				t.Errorf("no gradient violation containing %q in %v", tt.message, violations)
			}
		})
	}
}

func TestValidateLegacyTextType(t *testing.T) {
	doc := validDoc()
	doc.Objects[1].Type = canvas.TypeLegacyText

	ok, violations := Default().Validate(doc, 1080, 1080)
	if ok {
		t.Fatal("legacy text kind not flagged")
	}
	if categories(violations)[CategoryTextType] != 1 {
		t.Errorf("expected one text-type violation, got %v", violations)
	}
}

func TestValidateColors(t *testing.T) {
	doc := validDoc()
	doc.Objects[1].Fill = canvas.FlatColor("cornflowerblue")
	doc.Objects[1].Stroke = "#GGGGGG"

	ok, violations := Default().Validate(doc, 1080, 1080)
	if ok {
		t.Fatal("invalid colors not flagged")
	}
	if categories(violations)[CategoryColor] != 2 {
		t.Errorf("expected two color violations, got %v", violations)
	}
}

func TestValidateOverlapAllowList(t *testing.T) {
	tests := []struct {
		name    string
		under   *canvas.Element
		over    *canvas.Element
		allowed bool
	}{
		{
			name:    "image over image",
			under:   &canvas.Element{Type: canvas.TypeImage, Left: 0, Top: 0, Width: 500, Height: 500, ScaleX: 1, ScaleY: 1},
			over:    &canvas.Element{Type: canvas.TypeImage, Left: 100, Top: 100, Width: 300, Height: 300, ScaleX: 1, ScaleY: 1},
			allowed: true,
		},
		{
			name:    "rect under textbox",
			under:   &canvas.Element{Type: canvas.TypeRect, Left: 100, Top: 100, Width: 400, Height: 200, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#222222")},
			over:    &canvas.Element{Type: canvas.TypeTextbox, Left: 120, Top: 120, Width: 300, Height: 60, ScaleX: 1, ScaleY: 1, Text: "Sale", FontSize: 40, LineHeight: 1.2},
			allowed: true,
		},
		{
			name:    "textbox over rect",
			under:   &canvas.Element{Type: canvas.TypeTextbox, Left: 120, Top: 120, Width: 300, Height: 60, ScaleX: 1, ScaleY: 1, Text: "Sale", FontSize: 40, LineHeight: 1.2},
			over:    &canvas.Element{Type: canvas.TypeRect, Left: 100, Top: 100, Width: 400, Height: 200, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#222222")},
			allowed: false,
		},
		{
			name:    "rect over rect",
			under:   &canvas.Element{Type: canvas.TypeRect, Left: 100, Top: 100, Width: 200, Height: 200, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#222222")},
			over:    &canvas.Element{Type: canvas.TypeRect, Left: 150, Top: 150, Width: 200, Height: 200, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#333333")},
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &canvas.Document{
				Version: "5.3.0", Width: 1080, Height: 1080,
				Objects: []*canvas.Element{tt.under, tt.over},
			}
			_, violations := Default().Validate(doc, 1080, 1080)
			overlaps := categories(violations)[CategoryOverlap]
			if tt.allowed && overlaps > 0 {
				t.Errorf("allowed pair flagged: %v", violations)
			}
			if !tt.allowed && overlaps == 0 {
				t.Errorf("disallowed overlap not flagged: %v", violations)
			}
		})
	}
}

func TestValidateMinSpacing(t *testing.T) {
	// Two rects 10px apart horizontally: no intersection, but within the
	// 20px minimum spacing.
	doc := &canvas.Document{
		Version: "5.3.0", Width: 1080, Height: 1080,
		Objects: []*canvas.Element{
			{Type: canvas.TypeRect, Left: 100, Top: 100, Width: 200, Height: 100, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#111111")},
			{Type: canvas.TypeRect, Left: 310, Top: 100, Width: 200, Height: 100, ScaleX: 1, ScaleY: 1, Fill: canvas.FlatColor("#222222")},
		},
	}
	_, violations := Default().Validate(doc, 1080, 1080)
	if categories(violations)[CategoryOverlap] == 0 {
		t.Errorf("10px gap not flagged against 20px minimum: %v", violations)
	}
}

func TestValidateTextGapWithoutHorizontalOverlap(t *testing.T) {
	// Two captions at disjoint horizontal offsets, 10px apart vertically.
	doc := &canvas.Document{
		Version: "5.3.0", Width: 1080, Height: 1080,
		Objects: []*canvas.Element{
			{Type: canvas.TypeTextbox, Left: 0, Top: 100, Width: 300, Height: 48, ScaleX: 1, ScaleY: 1, Text: "First", FontSize: 40, LineHeight: 1.2},
			{Type: canvas.TypeTextbox, Left: 700, Top: 158, Width: 300, Height: 48, ScaleX: 1, ScaleY: 1, Text: "Second", FontSize: 40, LineHeight: 1.2},
		},
	}
	_, violations := Default().Validate(doc, 1080, 1080)

	found := false
	for _, v := range violations {
		if v.Category == CategoryOverlap && strings.Contains(v.Message, "vertical gap") {
			found = true
		}
	}
	if !found {
		t.Errorf("vertical text gap not flagged: %v", violations)
	}
}

func TestAllDeterministic(t *testing.T) {
	tests := []struct {
		name       string
		violations []Violation
		want       bool
	}{
		{"empty set", nil, true},
		{"only mechanical categories", []Violation{
			{Category: CategoryBoundary},
			{Category: CategoryGradient},
			{Category: CategoryTextType},
			{Category: CategoryOverlap},
			{Category: CategoryStructure},
		}, true},
		{"color needs judgment", []Violation{
			{Category: CategoryBoundary},
			{Category: CategoryColor},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllDeterministic(tt.violations); got != tt.want {
				t.Errorf("AllDeterministic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	doc := validDoc()
	doc.Objects[1].Left = -50
	before, _ := doc.Encode()

	Default().Validate(doc, 1080, 1080)

	after, _ := doc.Encode()
	if string(before) != string(after) {
		t.Error("Validate mutated the document")
	}
}
