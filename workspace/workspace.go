// Package workspace manages the per-course directories where segments are
// staged and lectures are written.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/etldl/etldl/constant"
	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/util"
	"github.com/google/uuid"
)

// TempDirname is the staging directory inside a course directory.
const TempDirname = "tmp"

// Ensure creates path and its parents. It is a no-op when path exists.
func Ensure(path string) error {
	return filesystem.API().MkdirAll(path, os.ModePerm)
}

// Purge removes path recursively. An absent path is not an error.
func Purge(path string) error {
	exists, err := filesystem.API().Exists(path)
	if err != nil || !exists {
		return err
	}
	return filesystem.API().RemoveAll(path)
}

// Exists reports whether a regular file or directory is at path.
func Exists(path string) bool {
	exists, err := filesystem.API().Exists(path)
	return err == nil && exists
}

// Layout places course artifacts under Root.
type Layout struct {
	Root string
}

// CourseDir is <root>/<course>.
func (l Layout) CourseDir(course *source.Course) string {
	return filepath.Join(l.Root, course.Dirname())
}

// CourseTempDir is the staging root of a course, holding every workspace.
func (l Layout) CourseTempDir(course *source.Course) string {
	return filepath.Join(l.CourseDir(course), TempDirname)
}

// TempDir is the workspace a video's segments are staged in: a
// subdirectory of CourseTempDir keyed by the video's URL as well as its
// title. No two videos share one, so purging a workspace never touches
// segments another lecture left behind.
func (l Layout) TempDir(course *source.Course, video *source.Video) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(video.URL)).String()[:8]
	return filepath.Join(l.CourseTempDir(course), util.FileStem(video.Filename(constant.RawExt))+"-"+id)
}

// RawPath is the assembled stream before conversion.
func (l Layout) RawPath(course *source.Course, video *source.Video) string {
	return filepath.Join(l.CourseDir(course), video.Filename(constant.RawExt))
}

// FinalPath is the converted lecture. Its presence means the video is done.
func (l Layout) FinalPath(course *source.Course, video *source.Video) string {
	return filepath.Join(l.CourseDir(course), video.Filename(constant.FinalExt))
}
