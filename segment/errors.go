package segment

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Transient reports whether the server may answer differently on retry.
func (e *StatusError) Transient() bool {
	return transientStatus(e.Code)
}

// ProbeError means a probe could not get a clean answer, so the end of
// the stream is unknown. It is never reported as a segment count.
type ProbeError struct {
	Index    int
	Attempts int
	Err      error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe segment %d failed after %d attempts: %v", e.Index, e.Attempts, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// FailedSegment is a segment that could not be written.
type FailedSegment struct {
	Index    int
	Attempts int
	Err      error
}

// FetchError lists the segments that failed after retries. Every index not
// listed was written.
type FetchError struct {
	Count     int
	Succeeded int
	Failed    []FailedSegment
}

// Indices returns the failed indices in ascending order.
func (e *FetchError) Indices() []int {
	return lo.Map(e.Failed, func(f FailedSegment, _ int) int { return f.Index })
}

func (e *FetchError) Error() string {
	indices := lo.Map(e.Indices(), func(i int, _ int) string { return fmt.Sprint(i) })
	if len(indices) > 10 {
		indices = append(indices[:10], "...")
	}
	return fmt.Sprintf(
		"%d of %d segments failed [%s]: %v",
		len(e.Failed), e.Count, strings.Join(indices, " "), e.Failed[0].Err,
	)
}

func (e *FetchError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}
	return e.Failed[0].Err
}

// AssemblyError means a segment file expected by Concat is missing.
type AssemblyError struct {
	Index int
	Path  string
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("segment %d missing at %s: %v", e.Index, e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
