package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful behind the API where different users or workspaces
// need separate cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private briefs
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for shared assets
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ResearchKey generates a prefixed key for research result caching.
func (k *ScopedKeyer) ResearchKey(brief string, opts ResearchKeyOpts) string {
	return k.prefix + k.inner.ResearchKey(brief, opts)
}

// PlanKey generates a prefixed key for plan caching.
func (k *ScopedKeyer) PlanKey(brief, researchHash string) string {
	return k.prefix + k.inner.PlanKey(brief, researchHash)
}

// AssetKey generates a prefixed key for asset caching.
func (k *ScopedKeyer) AssetKey(planHash string, opts AssetKeyOpts) string {
	return k.prefix + k.inner.AssetKey(planHash, opts)
}

// DocumentKey generates a prefixed key for document caching.
func (k *ScopedKeyer) DocumentKey(planHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(planHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
