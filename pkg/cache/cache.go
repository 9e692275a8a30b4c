// Package cache provides the caching layer shared by the CLI and API.
//
// A Cache stores opaque byte blobs under string keys with a per-entry
// TTL. A Keyer derives those keys from pipeline inputs so that every
// stage (research, assets, composition, artifacts) can be cached and
// invalidated independently. Backends: file (CLI), Redis (server),
// null (disabled).
package cache

import (
	"context"
	"time"
)

// Default TTLs per key family. Research and assets are expensive
// upstream calls and stay fresh for a long time; composed documents are
// cheap to rebuild and expire quickly so brief tweaks take effect.
const (
	TTLHTTP     = 24 * time.Hour
	TTLResearch = 24 * time.Hour
	TTLPlan     = 24 * time.Hour
	TTLAsset    = 7 * 24 * time.Hour
	TTLDocument = time.Hour
	TTLArtifact = time.Hour
)

// Cache is the storage interface for cached pipeline data.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResearchKeyOpts captures the inputs that change a research result.
type ResearchKeyOpts struct {
	Width  int
	Height int
}

// AssetKeyOpts captures the inputs that change a produced asset.
type AssetKeyOpts struct {
	Kind   string
	Prompt string
	Family string
}

// DocumentKeyOpts captures the inputs that change a composed document.
type DocumentKeyOpts struct {
	Width     int
	Height    int
	MaxRounds int
}

// ArtifactKeyOpts captures the inputs that change an encoded artifact.
type ArtifactKeyOpts struct {
	Format string
	Indent bool
}

// Keyer generates cache keys for the different cacheable stages.
// Implementations must be deterministic: the same inputs always produce
// the same key.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// ResearchKey generates a key for a brief's research result.
	ResearchKey(brief string, opts ResearchKeyOpts) string

	// PlanKey generates a key for a layout plan, scoped to the research
	// that informed it.
	PlanKey(brief, researchHash string) string

	// AssetKey generates a key for one produced asset, scoped to the
	// plan that requested it.
	AssetKey(planHash string, opts AssetKeyOpts) string

	// DocumentKey generates a key for a composed document, scoped to
	// the plan it was built from.
	DocumentKey(planHash string, opts DocumentKeyOpts) string

	// ArtifactKey generates a key for an encoded artifact, scoped to
	// the document it encodes.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
// Keys embed a SHA-256 over the inputs, so structurally different
// requests never collide.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// Format: http:{namespace}:{key}
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ResearchKey generates a key for research result caching.
func (k *DefaultKeyer) ResearchKey(brief string, opts ResearchKeyOpts) string {
	return hashKey("research", brief, opts)
}

// PlanKey generates a key for plan caching.
func (k *DefaultKeyer) PlanKey(brief, researchHash string) string {
	return hashKey("plan", brief, researchHash)
}

// AssetKey generates a key for asset caching.
func (k *DefaultKeyer) AssetKey(planHash string, opts AssetKeyOpts) string {
	return hashKey("asset", planHash, opts)
}

// DocumentKey generates a key for document caching.
func (k *DefaultKeyer) DocumentKey(planHash string, opts DocumentKeyOpts) string {
	return hashKey("document", planHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
