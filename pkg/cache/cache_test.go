package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// HTTPKey
	httpKey := k.HTTPKey("gateway:", "research")
	if httpKey != "http:gateway::research" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	// ResearchKey should include options in hash
	rk1 := k.ResearchKey("taco tuesday", ResearchKeyOpts{Width: 1080, Height: 1080})
	rk2 := k.ResearchKey("taco tuesday", ResearchKeyOpts{Width: 1920, Height: 1080})
	if rk1 == rk2 {
		t.Error("Different ResearchKeyOpts should produce different keys")
	}

	// PlanKey
	pk1 := k.PlanKey("taco tuesday", "hash123")
	pk2 := k.PlanKey("taco tuesday", "hash456")
	if pk1 == pk2 {
		t.Error("Different research hashes should produce different plan keys")
	}

	// AssetKey
	ak1 := k.AssetKey("hash123", AssetKeyOpts{Kind: "image", Prompt: "sunset"})
	ak2 := k.AssetKey("hash123", AssetKeyOpts{Kind: "image", Prompt: "sunrise"})
	if ak1 == ak2 {
		t.Error("Different AssetKeyOpts should produce different keys")
	}

	// DocumentKey
	dk1 := k.DocumentKey("hash123", DocumentKeyOpts{Width: 1080, Height: 1080, MaxRounds: 5})
	dk2 := k.DocumentKey("hash123", DocumentKeyOpts{Width: 1080, Height: 1080, MaxRounds: 1})
	if dk1 == dk2 {
		t.Error("Different DocumentKeyOpts should produce different keys")
	}

	// ArtifactKey
	xk1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "json", Indent: true})
	xk2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "json", Indent: false})
	if xk1 == xk2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	// All keys should be prefixed
	httpKey := scoped.HTTPKey("assets:", "lora")
	if httpKey != "user:123:http:assets::lora" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", httpKey)
	}

	researchKey := scoped.ResearchKey("taco tuesday", ResearchKeyOpts{})
	if len(researchKey) < 15 || researchKey[:9] != "user:123:" {
		t.Errorf("ScopedKeyer ResearchKey should be prefixed: %s", researchKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HTTPKey("test:", "key")
	if key != "prefix:http:test::key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	if _, hit, _ := c.Get(ctx, "doc"); hit {
		t.Error("unexpected hit before Set")
	}

	if err := c.Set(ctx, "doc", []byte(`{"version":"5.3.0"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "doc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != `{"version":"5.3.0"}` {
		t.Errorf("Get returned %q", data)
	}

	// Expired entries are treated as misses
	if err := c.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("expired entry should miss")
	}

	// Delete is idempotent
	if err := c.Delete(ctx, "doc"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "doc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}
