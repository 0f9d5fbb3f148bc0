// Package segment counts, fetches and reassembles the numbered transport stream
// segments of a lecture.
//
// A stream exposes no manifest with its length, so the Locator probes indices
// in order until the first missing one. The Fetcher then downloads [0, count)
// through a bounded worker pool, and Concat joins the files by ascending index.
package segment

import (
	"net/http"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

func success(code int) bool {
	return code >= 200 && code < 300
}

// transientStatus reports whether a status is worth retrying rather than
// being taken as an answer.
func transientStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
