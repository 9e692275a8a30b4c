// Package httputil provides HTTP utilities for gateway and asset clients.
//
// # Overview
//
// This package provides infrastructure used by all upstream API clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/easel/)
// with configurable TTL. This dramatically speeds up repeated runs of
// the same brief and reduces load on the generation gateway.
//
// Usage:
//
//	cache, err := httputil.NewCache(dir, 24*time.Hour)
//	var data researchResponse
//	if ok, err := cache.Get("research:taco-tuesday", &data); !ok || err != nil {
//	    data = fetchFromGateway()
//	    cache.Set("research:taco-tuesday", data)
//	}
//
// Cache keys should be namespaced by endpoint to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff between attempts:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err = client.Do(req)
//	    return err
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/easel/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `easel cache clear` or by deleting the
// cache directory.
package httputil
