package downloader

import (
	"fmt"

	"github.com/etldl/etldl/source"
)

// ResolutionError means the stream of a lecture could not be found.
type ResolutionError struct {
	Video *source.Video
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve stream of %q: %v", e.Video.Title, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
