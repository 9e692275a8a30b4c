// Package gen defines the contracts between the composition pipeline and
// the generation backends that produce creative content.
//
// # Overview
//
// The pipeline is backend-agnostic: it talks to the interfaces defined
// here, and a backend (normally the HTTP gateway in [gateway]) supplies
// the implementations:
//
//   - [Researcher]: turns a brief into style research
//   - [Planner]: turns research into a composition plan with asset requests
//   - [Composer]: turns a plan plus produced assets into a canvas document
//   - [Critic]: judges a document against the brief
//   - [FeedbackApplier]: revises a document according to critic feedback
//
// # Client Pattern
//
// Backends are expected to be unreliable. Responses may be wrapped in
// markdown fences, candidates may fail to parse, and critics may answer
// free-form. The parsing helpers here ([ParseCritique], together with
// canvas.DecodeText) normalize that surface so the pipeline only sees
// typed values or errors.
//
// The [Client] type provides shared HTTP functionality used by gateway
// implementations, including response caching and retry with backoff.
//
// [gateway]: github.com/easelhq/easel/pkg/gen/gateway
package gen
