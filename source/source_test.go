package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCourse(t *testing.T) {
	Convey("Given a course", t, func() {
		c := &Course{Title: "Data Structures (001)", URL: "https://myetl.snu.ac.kr/course/view.php?id=12345"}

		Convey("ID is read from the url", func() {
			So(c.ID(), ShouldEqual, "12345")
		})

		Convey("Dirname is filesystem safe", func() {
			So(c.Dirname(), ShouldEqual, "Data_Structures_(001)")
		})

		Convey("An empty title falls back to the id", func() {
			c.Title = "???"
			So(c.Dirname(), ShouldEqual, "course_12345")
		})
	})
}

func TestVideo(t *testing.T) {
	Convey("Given a video", t, func() {
		v := &Video{Title: "Week 1: Intro", URL: "https://myetl.snu.ac.kr/mod/vod/view.php?id=7"}

		Convey("PlayerURL points at the viewer page", func() {
			So(v.PlayerURL(), ShouldEqual, "https://myetl.snu.ac.kr/mod/vod/viewer.php?id=7")
		})

		Convey("Filename is sanitized", func() {
			So(v.Filename("mp4"), ShouldEqual, "Week_1_Intro.mp4")
		})

		Convey("Equality is by url", func() {
			So(v.Equal(&Video{Title: "other", URL: v.URL}), ShouldBeTrue)
			So(v.Equal(&Video{Title: v.Title, URL: "x"}), ShouldBeFalse)
		})

		Convey("Bind enriches once", func() {
			stream := Stream{Endpoint: "http://host/vod", MediaID: "w42"}
			So(v.Bind(stream, 12), ShouldBeNil)
			So(v.MediaID.MustGet(), ShouldEqual, "w42")
			So(v.SegmentCount.MustGet(), ShouldEqual, 12)

			So(v.Bind(stream, 12), ShouldEqual, ErrAlreadyBound)
		})

		Convey("Bind rejects negative counts", func() {
			So(v.Bind(Stream{}, -1), ShouldNotBeNil)
			So(v.MediaID.IsPresent(), ShouldBeFalse)
		})
	})
}

func TestDedupe(t *testing.T) {
	Convey("Dedupe keeps the first occurrence in order", t, func() {
		a := &Video{Title: "a", URL: "1"}
		b := &Video{Title: "b", URL: "2"}
		dup := &Video{Title: "a again", URL: "1"}
		c := &Video{Title: "c", URL: "3"}

		out := Dedupe([]*Video{a, b, dup, c})
		So(out, ShouldHaveLength, 3)
		So(out[0], ShouldEqual, a)
		So(out[1], ShouldEqual, b)
		So(out[2], ShouldEqual, c)
	})
}

func TestStream(t *testing.T) {
	Convey("Given a stream", t, func() {
		s := Stream{Endpoint: "http://etlstream.snu.ac.kr:1935/vod/_definst_/mp4:a.mp4/", MediaID: "w99"}

		Convey("Segment urls follow the numbering scheme", func() {
			So(s.SegmentURL(0), ShouldEqual, "http://etlstream.snu.ac.kr:1935/vod/_definst_/mp4:a.mp4/media_w99_0.ts")
			So(s.SegmentURL(17), ShouldEndWith, "media_w99_17.ts")
		})

		Convey("Segment names carry the index first", func() {
			So(s.SegmentName(3), ShouldEqual, "3_w99.ts")
		})
	})
}
