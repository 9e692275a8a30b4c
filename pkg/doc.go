// Package pkg provides the core libraries for Easel banner generation.
//
// # Overview
//
// Easel turns a short text brief into a validated fabric.js banner document.
// The pkg directory is organized into a handful of focused areas:
//
//  1. [canvas] - Document model (fabric.js JSON encoding, element variants)
//  2. [gen] - Generation backends (gateway client for research, plans, assets)
//  3. [validate] / [repair] / [refine] - Quality loop (check, fix, iterate)
//  4. [pipeline] - Orchestration (research → plan → assets → compose → encode)
//  5. [cache] / [store] - Persistence (content-addressed cache, banner archive)
//
// # Architecture
//
// The typical data flow through Easel:
//
//	Brief
//	     ↓
//	[gen] package (research + plan + asset generation)
//	     ↓
//	[assets] package (concurrent asset production)
//	     ↓
//	[refine] package (compose, validate, repair, critique)
//	     ↓
//	JSON/HTML artifacts
//
// # Quick Start
//
// Compose a banner end to end:
//
//	import (
//	    "context"
//	    "github.com/easelhq/easel/pkg/gen/gateway"
//	    "github.com/easelhq/easel/pkg/pipeline"
//	)
//
//	backend := gateway.New("https://gateway.example.com", token, nil)
//	runner := pipeline.NewRunner(backend, nil, nil, nil)
//
//	result, err := runner.Execute(context.Background(), &pipeline.Options{
//	    Brief: "Launch banner for a taco truck, bold and playful",
//	})
//
// # Main Packages
//
// [canvas] - The fabric.js document model. Elements (rect, image, textbox,
// group) share a common geometry base and round-trip through JSON without
// losing unknown fields.
//
// [validate] - Structural, boundary, gradient, text-type, color, and overlap
// checks over a document. Policies make spacing thresholds and the overlap
// allow-list configurable.
//
// [repair] - Deterministic fixes for boundary, gradient, text-type, and
// overlap violations. Color issues are escalated to generation feedback
// instead of being patched locally.
//
// [refine] - The compose/validate/repair/critique loop. Each round applies
// repairs first and only falls back to backend feedback for what repairs
// cannot fix.
//
// [assets] - Concurrent asset production with a bounded worker pool.
// Individual task failures are collected rather than aborting the batch.
//
// [gen] - Backend interfaces for research, planning, asset generation, and
// critique, plus the HTTP gateway implementation in [gen/gateway].
//
// [pipeline] - End-to-end orchestration used by CLI and API. Each stage is
// cached by content hash so repeated runs with the same inputs reuse work.
//
// [cache] - Cache interface with file, Redis, and null implementations, plus
// key derivation and TTL policy per stage.
//
// [store] - Banner archive with file and MongoDB backends.
//
// [httputil] - HTTP client helpers shared by gateway clients: response
// caching and retry with backoff.
//
// [errors] - Error codes and wrapping so CLI and API surfaces can map
// failures to user messages and exit/status codes.
//
// [observability] - Hook points for pipeline stage progress, consumed by the
// CLI spinner and available for external instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/canvas/...       # Specific package
//	go test -run Example           # Examples only
//
// [canvas]: https://pkg.go.dev/github.com/easelhq/easel/pkg/canvas
// [validate]: https://pkg.go.dev/github.com/easelhq/easel/pkg/validate
// [repair]: https://pkg.go.dev/github.com/easelhq/easel/pkg/repair
// [refine]: https://pkg.go.dev/github.com/easelhq/easel/pkg/refine
// [assets]: https://pkg.go.dev/github.com/easelhq/easel/pkg/assets
// [gen]: https://pkg.go.dev/github.com/easelhq/easel/pkg/gen
// [gen/gateway]: https://pkg.go.dev/github.com/easelhq/easel/pkg/gen/gateway
// [pipeline]: https://pkg.go.dev/github.com/easelhq/easel/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/easelhq/easel/pkg/cache
// [store]: https://pkg.go.dev/github.com/easelhq/easel/pkg/store
// [httputil]: https://pkg.go.dev/github.com/easelhq/easel/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/easelhq/easel/pkg/errors
// [observability]: https://pkg.go.dev/github.com/easelhq/easel/pkg/observability
package pkg
