package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etldl/etldl/segment"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBar(t *testing.T) {
	Convey("Given a bar for four segments", t, func() {
		var out bytes.Buffer
		bar := New(&out, "Week 1: Introduction to a very long lecture title", 4)

		Convey("It starts empty", func() {
			So(bar.Percent(), ShouldEqual, 0)
			So(bar.View(), ShouldContainSubstring, "0/4")
		})

		Convey("Adding segments advances and redraws it", func() {
			bar.Add(segment.Result{Index: 0, Bytes: 1024})
			bar.Add(segment.Result{Index: 2, Bytes: 1024})
			bar.Add(segment.Result{Index: 1, Err: errors.New("boom")})

			So(bar.Percent(), ShouldEqual, 0.75)
			view := bar.View()
			So(view, ShouldContainSubstring, "3/4")
			So(view, ShouldContainSubstring, "1 failed")
			So(view, ShouldContainSubstring, "2.0 KiB")
			So(strings.Count(out.String(), "\r"), ShouldEqual, 3)
		})

		Convey("Long titles are truncated", func() {
			So(bar.View(), ShouldContainSubstring, "…")
			So(bar.View(), ShouldNotContainSubstring, "very long lecture title")
		})

		Convey("Clear blanks the line", func() {
			bar.Add(segment.Result{Index: 0, Bytes: 10})
			out.Reset()
			bar.Clear()
			So(strings.TrimSpace(strings.Trim(out.String(), "\r")), ShouldBeEmpty)
		})
	})

	Convey("A bar with nothing to do is complete", t, func() {
		So(New(&bytes.Buffer{}, "empty", 0).Percent(), ShouldEqual, 1)
	})
}
