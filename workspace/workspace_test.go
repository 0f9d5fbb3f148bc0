package workspace

import (
	"path/filepath"
	"testing"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/source"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnsurePurge(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		dir := "/downloads/course/tmp"

		Convey("Ensure creates parents and is idempotent", func() {
			So(Ensure(dir), ShouldBeNil)
			So(Ensure(dir), ShouldBeNil)
			isDir, err := fs.IsDir(dir)
			So(err, ShouldBeNil)
			So(isDir, ShouldBeTrue)
		})

		Convey("Purge removes the tree", func() {
			So(Ensure(filepath.Join(dir, "nested")), ShouldBeNil)
			So(fs.WriteFile(filepath.Join(dir, "0_w1.ts"), []byte("x"), 0o644), ShouldBeNil)

			So(Purge(dir), ShouldBeNil)
			So(Exists(dir), ShouldBeFalse)
			So(Exists("/downloads/course"), ShouldBeTrue)
		})

		Convey("Purge of an absent path succeeds", func() {
			So(Purge("/nowhere"), ShouldBeNil)
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Given a layout", t, func() {
		layout := Layout{Root: "/downloads"}
		course := &source.Course{Title: "Operating Systems", URL: "https://etl/course/view.php?id=1"}
		first := &source.Video{Title: "Lecture 1/2", URL: "a"}
		second := &source.Video{Title: "Lecture 2", URL: "b"}

		Convey("Artifacts live in the course directory", func() {
			So(layout.CourseDir(course), ShouldEqual, "/downloads/Operating_Systems")
			So(layout.RawPath(course, first), ShouldEqual, "/downloads/Operating_Systems/Lecture_1_2.ts")
			So(layout.FinalPath(course, first), ShouldEqual, "/downloads/Operating_Systems/Lecture_1_2.mp4")
		})

		Convey("Workspaces are distinct per video under the course tmp directory", func() {
			a := layout.TempDir(course, first)
			b := layout.TempDir(course, second)
			So(a, ShouldNotEqual, b)
			So(layout.CourseTempDir(course), ShouldEqual, "/downloads/Operating_Systems/tmp")
			So(filepath.Dir(a), ShouldEqual, layout.CourseTempDir(course))
			So(filepath.Dir(b), ShouldEqual, layout.CourseTempDir(course))
			So(filepath.Base(a), ShouldStartWith, "Lecture_1_2-")
			So(layout.TempDir(course, first), ShouldEqual, a)
		})

		Convey("Videos sharing a title still get distinct workspaces", func() {
			twin := &source.Video{Title: first.Title, URL: "c"}
			So(layout.TempDir(course, twin), ShouldNotEqual, layout.TempDir(course, first))
		})
	})
}
