package downloader

import (
	"fmt"
	"time"

	"github.com/etldl/etldl/source"
	"github.com/samber/lo"
)

// Status is how a lecture's pipeline ended.
type Status int

const (
	// StatusSkipped means the final file already existed.
	StatusSkipped Status = iota + 1
	// StatusConverted means a raw stream from an earlier run was converted.
	StatusConverted
	// StatusDownloaded means the lecture was fetched and assembled in this run.
	StatusDownloaded
	// StatusEmpty means the stream has no segments. Nothing is written.
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusConverted:
		return "converted"
	case StatusDownloaded:
		return "downloaded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the result of one lecture.
type Outcome struct {
	Video  *source.Video `json:"video"`
	Status Status        `json:"status"`

	// Path is the artifact left on disk, if any.
	Path      string        `json:"path,omitempty"`
	Converted bool          `json:"converted"`
	Segments  int           `json:"segments"`
	Bytes     int64         `json:"bytes"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// Summary collects the outcomes of a run in the order the videos were given.
type Summary struct {
	RunID    string         `json:"run_id"`
	Course   *source.Course `json:"course"`
	Outcomes []Outcome      `json:"outcomes"`
}

// Count returns how many lectures ended with status.
func (s Summary) Count(status Status) int {
	return lo.CountBy(s.Outcomes, func(o Outcome) bool { return o.Status == status })
}

func (s Summary) Failed() []Outcome {
	return lo.Filter(s.Outcomes, func(o Outcome, _ int) bool { return o.Status == StatusFailed })
}

// OK reports whether no lecture failed.
func (s Summary) OK() bool {
	return s.Count(StatusFailed) == 0
}

// Bytes is the total size written by this run.
func (s Summary) Bytes() int64 {
	return lo.SumBy(s.Outcomes, func(o Outcome) int64 { return o.Bytes })
}
