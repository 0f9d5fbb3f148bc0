package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etldl/etldl/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ErrAlreadyBound is returned when a video is bound to a stream twice.
var ErrAlreadyBound = errors.New("video is already bound to a stream")

// Video is a lecture video. MediaID and SegmentCount are unknown until
// its stream has been resolved and counted.
type Video struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	MediaID      mo.Option[string] `json:"media_id"`
	SegmentCount mo.Option[int]    `json:"segment_count"`
}

func (v *Video) String() string {
	return v.Title
}

// PlayerURL is the page embedding the stream player.
func (v *Video) PlayerURL() string {
	return strings.Replace(v.URL, "view", "viewer", 1)
}

// Equal reports whether both videos point at the same lecture.
func (v *Video) Equal(other *Video) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.URL == other.URL
}

// Bind records the resolved stream and its segment count.
func (v *Video) Bind(stream Stream, count int) error {
	if v.MediaID.IsPresent() || v.SegmentCount.IsPresent() {
		return ErrAlreadyBound
	}
	if count < 0 {
		return fmt.Errorf("negative segment count %d", count)
	}

	v.MediaID = mo.Some(stream.MediaID)
	v.SegmentCount = mo.Some(count)
	return nil
}

// Filename is the safe file name of the video with the given extension.
func (v *Video) Filename(ext string) string {
	name := util.SanitizeFilename(v.Title)
	if name == "" {
		name = "video"
	}
	return name + "." + ext
}

// Dedupe drops repeated lectures by URL, keeping the first occurrence in order.
func Dedupe(videos []*Video) []*Video {
	return lo.UniqBy(videos, func(v *Video) string {
		return v.URL
	})
}
