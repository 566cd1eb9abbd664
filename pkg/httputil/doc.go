// Package httputil provides retry and response helpers shared by the
// outbound HTTP clients (page fetches, oEmbed lookups).
//
// [Retry] re-runs an operation with exponential backoff, but only when the
// failure is wrapped in [RetryableError]. [CheckStatus] turns an HTTP status
// into that classification: 5xx and 429 are retryable, other non-2xx codes
// are returned as a [StatusError] right away.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
package httputil
