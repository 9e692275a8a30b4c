// Package assets fans generation of banner assets (images, fonts) out to
// a bounded worker pool. Failed tasks never abort the batch; they are
// reported alongside the successes so the caller can decide whether the
// remaining assets are enough to compose with.
package assets

import (
	"fmt"

	"github.com/google/uuid"
)

// Asset kinds understood by the scheduler. Kind routes a descriptor to
// the matching producer endpoint and is the only way results are matched
// back to plan slots, so completion order never matters.
const (
	KindImage = "image"
	KindFont  = "font"
)

// Descriptor is one asset request from a composition plan.
type Descriptor struct {
	Kind   string `json:"kind"`
	Prompt string `json:"prompt,omitempty"`
	Family string `json:"family,omitempty"`
}

// Task is a Descriptor claimed for execution, tagged with a stable ID so
// errors and results stay attributable after the fan-out.
type Task struct {
	ID uuid.UUID
	Descriptor
}

// NewTask wraps a descriptor with a fresh task ID.
func NewTask(d Descriptor) Task {
	return Task{ID: uuid.New(), Descriptor: d}
}

// Result is a completed task with the URL of the produced asset.
type Result struct {
	Task
	URL string `json:"url"`
}

// TaskError records a failed task. The batch carries on without it.
type TaskError struct {
	Task
	Err error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("asset task %s (%s): %v", e.ID, e.Kind, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// FontURL returns the URL of the first font result, if any. Results are
// matched by kind, not position, because the pool completes tasks in an
// arbitrary order.
func FontURL(results []Result) (string, bool) {
	for _, r := range results {
		if r.Kind == KindFont {
			return r.URL, true
		}
	}
	return "", false
}

// ImageURLs returns the URLs of all image results in completion order.
func ImageURLs(results []Result) []string {
	var urls []string
	for _, r := range results {
		if r.Kind == KindImage {
			urls = append(urls, r.URL)
		}
	}
	return urls
}
