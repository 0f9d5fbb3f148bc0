package source

import (
	"fmt"
	"strings"
)

// Stream addresses the numbered segments of one lecture.
type Stream struct {
	Endpoint string `json:"endpoint"`
	MediaID  string `json:"media_id"`
}

// SegmentURL is the remote location of segment i.
func (s Stream) SegmentURL(i int) string {
	return fmt.Sprintf("%s/media_%s_%d.ts", strings.TrimRight(s.Endpoint, "/"), s.MediaID, i)
}

// SegmentName is the file name segment i is stored under.
func (s Stream) SegmentName(i int) string {
	return fmt.Sprintf("%d_%s.ts", i, s.MediaID)
}

func (s Stream) String() string {
	return s.Endpoint + " (" + s.MediaID + ")"
}
