// Package integrations provides the shared HTTP client used by feed clients.
//
// # Client Pattern
//
// Feed clients embed a [Client] and wrap every remote fetch in
// [Client.Cached]:
//
//	var idx registrationIndex
//	err := c.Cached(ctx, "reg:"+id, refresh, &idx, func() error {
//	    return c.Get(ctx, url, &idx)
//	})
//
// [Client] handles:
//   - Response caching through [cache.Cache] with a TTL
//   - Retry with exponential backoff for transient failures
//   - Default headers and basic auth for private feeds
//   - Cache and HTTP events for [observability] hooks
//
// Status codes map to sentinel errors: 404 is [ErrNotFound], 401/403 is
// [ErrUnauthorized], 429 and 5xx are retryable [ErrNetwork].
//
// The NuGet v3 client in pkg/feed/nuget is built on [Client].
//
// [cache.Cache]: github.com/matzehuels/nugetviz/pkg/cache.Cache
// [observability]: github.com/matzehuels/nugetviz/pkg/observability
package integrations
