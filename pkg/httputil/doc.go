// Package httputil provides retry with exponential backoff for feed clients.
//
// Transient failures are marked with [Retryable]; everything else is returned
// immediately by [Policy.Do]:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// The default schedule is 3 attempts with a 1s initial delay, doubling after
// every failure. A cancelled context stops the wait and returns ctx.Err().
package httputil
