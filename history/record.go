package history

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/etldl/etldl/source"
)

// Record is a lecture that finished downloading.
type Record struct {
	Course    string    `json:"course"`
	CourseURL string    `json:"course_url"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	Segments  int       `json:"segments"`
	Bytes     int64     `json:"bytes"`
	RunID     string    `json:"run_id"`
	Completed time.Time `json:"completed"`
}

// NewRecord describes video of course saved at path.
func NewRecord(course *source.Course, video *source.Video, path string) *Record {
	return &Record{
		Course:    course.Title,
		CourseURL: course.URL,
		Title:     video.Title,
		URL:       video.URL,
		Path:      path,
		Segments:  video.SegmentCount.OrElse(0),
		Completed: time.Now(),
	}
}

func (r *Record) key() string {
	return r.URL
}

func (r *Record) String() string {
	return fmt.Sprintf("%s / %s (%s, %s)", r.Course, r.Title, humanize.IBytes(uint64(r.Bytes)), humanize.Time(r.Completed))
}
