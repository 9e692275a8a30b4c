// Package validate inspects banner documents against the engine's
// structural and geometric rule set, producing typed violations.
//
// The validator is a pure function over its inputs: it never mutates the
// document and is safe to call concurrently on independent documents.
// Violations are value records produced fresh on every pass; nothing in
// this package retains or patches them.
package validate

import "fmt"

// Category classifies a violation for repair targeting. The deterministic
// repairer keys its fixes on these values.
type Category string

const (
	CategoryStructure Category = "structure"
	CategoryBoundary  Category = "boundary"
	CategoryGradient  Category = "gradient"
	CategoryTextType  Category = "text-type"
	CategoryColor     Category = "color"
	CategoryOverlap   Category = "overlap"
)

// Violation is a single rule failure located by element path.
type Violation struct {
	Category Category `json:"category"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

// String formats the violation as "category: path: message".
func (v Violation) String() string {
	if v.Path == "" {
		return fmt.Sprintf("%s: %s", v.Category, v.Message)
	}
	return fmt.Sprintf("%s: %s: %s", v.Category, v.Path, v.Message)
}

// Deterministic reports whether the category can be fixed without
// external judgment. Color choices need a design decision, so they
// escalate to feedback instead.
func (c Category) Deterministic() bool {
	switch c {
	case CategoryStructure, CategoryBoundary, CategoryGradient, CategoryTextType, CategoryOverlap:
		return true
	}
	return false
}

// AllDeterministic reports whether every violation in the set is
// deterministically repairable.
func AllDeterministic(violations []Violation) bool {
	for _, v := range violations {
		if !v.Category.Deterministic() {
			return false
		}
	}
	return true
}

// Summarize renders violations as a feedback-ready text block, one
// violation per line.
func Summarize(violations []Violation) string {
	out := ""
	for i, v := range violations {
		if i > 0 {
			out += "\n"
		}
		out += v.String()
	}
	return out
}

// CountByCategory tallies violations per category.
func CountByCategory(violations []Violation) map[Category]int {
	counts := make(map[Category]int)
	for _, v := range violations {
		counts[v.Category]++
	}
	return counts
}
