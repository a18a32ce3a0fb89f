// Package httputil provides the HTTP plumbing shared by API clients.
//
// [Cache] stores JSON-marshaled API responses in the filesystem
// (~/.cache/pkgdb/ by default) with a configurable TTL, so repeated report
// runs don't hammer the stats API. [Retry] wraps fetch functions with
// exponential backoff, retrying only errors marked transient via
// [RetryableError] (network failures, 5xx responses).
//
//	cache, err := httputil.NewCache("", 6*time.Hour)
//	err = httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchFromAPI()
//	})
//
// Cache keys should be namespaced per endpoint (e.g. "recent:flask") to
// avoid collisions; see [Cache.Namespace]. The cache can be cleared with
// `pkgdb cache clear` or by deleting the directory.
package httputil
