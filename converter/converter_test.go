package converter

import (
	"context"
	"errors"
	"testing"

	"github.com/etldl/etldl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConvert(t *testing.T) {
	Convey("Given a raw stream on disk", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		in, out := "/downloads/course/lecture.ts", "/downloads/course/lecture.mp4"
		So(fs.WriteFile(in, []byte("raw"), 0o644), ShouldBeNil)

		var gotName string
		var gotArgs []string

		Convey("When the converter succeeds", func() {
			ff := (&FFmpeg{Path: "ffmpeg", Args: []string{"-c", "copy"}}).WithRunner(
				func(_ context.Context, name string, args ...string) ([]byte, error) {
					gotName, gotArgs = name, args
					return nil, fs.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
				},
			)

			So(ff.Convert(context.Background(), in, out), ShouldBeNil)

			Convey("It is invoked with the extra arguments before the output", func() {
				So(gotName, ShouldEqual, "ffmpeg")
				So(gotArgs, ShouldResemble, []string{
					"-y", "-loglevel", "error", "-i", in, "-c", "copy", "-f", "mp4", out + filesystem.PartSuffix,
				})
			})

			Convey("The output is renamed into place", func() {
				data, err := fs.ReadFile(out)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "mp4")

				exists, _ := fs.Exists(out + filesystem.PartSuffix)
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When the converter fails", func() {
			ff := (&FFmpeg{Path: "ffmpeg"}).WithRunner(
				func(_ context.Context, _ string, args ...string) ([]byte, error) {
					_ = fs.WriteFile(args[len(args)-1], []byte("half"), 0o644)
					return []byte("frame=1\nInvalid data found when processing input"), errors.New("exit status 1")
				},
			)

			err := ff.Convert(context.Background(), in, out)

			Convey("A ConversionError carries stderr", func() {
				var convErr *ConversionError
				So(errors.As(err, &convErr), ShouldBeTrue)
				So(convErr.Stderr, ShouldContainSubstring, "Invalid data")
				So(err.Error(), ShouldEndWith, "Invalid data found when processing input")
			})

			Convey("The input is kept and no output is left", func() {
				exists, _ := fs.Exists(in)
				So(exists, ShouldBeTrue)
				exists, _ = fs.Exists(out)
				So(exists, ShouldBeFalse)
				exists, _ = fs.Exists(out + filesystem.PartSuffix)
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When the input is missing", func() {
			ff := (&FFmpeg{Path: "ffmpeg"}).WithRunner(func(context.Context, string, ...string) ([]byte, error) {
				panic("must not run")
			})

			var convErr *ConversionError
			So(errors.As(ff.Convert(context.Background(), "/missing.ts", out), &convErr), ShouldBeTrue)
		})
	})

	Convey("Given a converter that prints its version", t, func() {
		var gotArgs []string
		ff := (&FFmpeg{Path: "ffmpeg"}).WithRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
			gotArgs = args
			return []byte("ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc 13\nconfiguration: --enable-gpl\n"), nil
		})

		version, err := ff.Version(context.Background())

		Convey("Only the first line is reported", func() {
			So(err, ShouldBeNil)
			So(gotArgs, ShouldResemble, []string{"-version"})
			So(version, ShouldEqual, "ffmpeg version 6.1.1 Copyright (c) 2000-2023")
		})
	})

	Convey("Given a converter that cannot report its version", t, func() {
		silent := (&FFmpeg{Path: "ffmpeg"}).WithRunner(func(context.Context, string, ...string) ([]byte, error) {
			return nil, nil
		})
		_, err := silent.Version(context.Background())
		So(err, ShouldNotBeNil)

		broken := (&FFmpeg{Path: "ffmpeg"}).WithRunner(func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		})
		_, err = broken.Version(context.Background())
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "exit status 1")
	})

	Convey("Location resolves executables on PATH", t, func() {
		path, ok := (&FFmpeg{Path: "sh"}).Location()
		So(ok, ShouldBeTrue)
		So(path, ShouldNotBeEmpty)

		_, ok = (&FFmpeg{Path: "etldl-no-such-converter"}).Location()
		So(ok, ShouldBeFalse)
	})

	Convey("Available is false for an unknown executable", t, func() {
		So((&FFmpeg{Path: "etldl-no-such-converter"}).Available(), ShouldBeFalse)
	})

	Convey("A real process cannot convert files held in memory", t, func() {
		filesystem.SetMemMapFs()
		So((&FFmpeg{Path: "sh"}).Available(), ShouldBeFalse)
		So((&FFmpeg{Path: "sh"}).WithRunner(execRunner).Available(), ShouldBeTrue)

		filesystem.SetOsFs()
		So((&FFmpeg{Path: "sh"}).Available(), ShouldBeTrue)
	})
}
