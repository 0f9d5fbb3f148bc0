package history

import (
	"testing"
	"time"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a downloaded lecture", t, func() {
		So(Clear(), ShouldBeNil)

		course := &source.Course{Title: "Algorithms", URL: "https://etl/course/view.php?id=3"}
		video := &source.Video{Title: "Week 2", URL: "https://etl/mod/vod/view.php?id=9", SegmentCount: mo.Some(42)}
		record := NewRecord(course, video, "/downloads/Algorithms/Week_2.mp4")
		record.Bytes = 2048

		Convey("When saving it", func() {
			So(Save(record), ShouldBeNil)

			Convey("It can be read back by url", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, video.URL)
				So(saved[video.URL].Segments, ShouldEqual, 42)
				So(saved[video.URL].Course, ShouldEqual, "Algorithms")
			})

			Convey("Saving again replaces the record", func() {
				again := NewRecord(course, video, "/elsewhere/Week_2.mp4")
				So(Save(again), ShouldBeNil)

				records, err := List()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Path, ShouldEqual, "/elsewhere/Week_2.mp4")
			})

			Convey("Removing it forgets it", func() {
				So(Remove(record), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldBeEmpty)
			})
		})

		Convey("List orders the most recent first", func() {
			older := NewRecord(course, &source.Video{Title: "Week 1", URL: "u1"}, "p1")
			older.Completed = time.Now().Add(-time.Hour)
			So(Save(older), ShouldBeNil)
			So(Save(record), ShouldBeNil)

			records, err := List()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			So(records[0].URL, ShouldEqual, video.URL)
		})

		Convey("String is human readable", func() {
			So(record.String(), ShouldStartWith, "Algorithms / Week 2 (2.0 KiB")
		})
	})
}
