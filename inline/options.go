// Package inline implements the non-interactive mode: picking a course and
// filtering its lectures from command line arguments, and printing listings.
package inline

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/etldl/etldl/source"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type (
	CoursePicker func([]*source.Course) (*source.Course, error)
	VideosFilter func([]*source.Video) ([]*source.Video, error)
)

// Locator counts the segments of a stream.
type Locator interface {
	Locate(ctx context.Context, stream source.Stream) (int, error)
}

type Options struct {
	Out          io.Writer
	Portal       source.Portal
	Json         bool
	CoursePicker mo.Option[CoursePicker]
	VideosFilter mo.Option[VideosFilter]

	// Resolve looks up the stream of every listed lecture.
	Resolve bool
	// Locator, when set together with Resolve, also counts segments.
	Locator Locator
}

// ParseCoursePicker understands "first", "last", a 1-based number ("3" or
// "#3"), and otherwise a title: exact match first, then the closest fuzzy match.
func ParseCoursePicker(description string) (CoursePicker, error) {
	description = strings.TrimSpace(description)

	switch description {
	case "":
		return nil, fmt.Errorf("empty course picker")
	case "first":
		return func(courses []*source.Course) (*source.Course, error) {
			if len(courses) == 0 {
				return nil, errNoCourses
			}
			return courses[0], nil
		}, nil
	case "last":
		return func(courses []*source.Course) (*source.Course, error) {
			if len(courses) == 0 {
				return nil, errNoCourses
			}
			return courses[len(courses)-1], nil
		}, nil
	}

	if n, err := strconv.Atoi(strings.TrimPrefix(description, "#")); err == nil {
		if n < 1 {
			return nil, fmt.Errorf("course number must be at least 1: %d", n)
		}
		return func(courses []*source.Course) (*source.Course, error) {
			if n > len(courses) {
				return nil, fmt.Errorf("course %d does not exist, there are %d", n, len(courses))
			}
			return courses[n-1], nil
		}, nil
	}

	return func(courses []*source.Course) (*source.Course, error) {
		for _, c := range courses {
			if strings.EqualFold(c.Title, description) {
				return c, nil
			}
		}

		titles := lo.Map(courses, func(c *source.Course, _ int) string { return c.Title })
		ranks := fuzzy.RankFindNormalizedFold(description, titles)
		if len(ranks) == 0 {
			return nil, fmt.Errorf("no course matches %q", description)
		}
		sort.Sort(ranks)
		return courses[ranks[0].OriginalIndex], nil
	}, nil
}

var errNoCourses = fmt.Errorf("no courses")

// ParseVideosFilter understands "all", "first", "last", a 1-based number,
// an inclusive 1-based range "A-B", and "@text@" for a case-insensitive
// title search.
func ParseVideosFilter(description string) (VideosFilter, error) {
	description = strings.TrimSpace(description)

	switch description {
	case "all", "":
		return func(videos []*source.Video) ([]*source.Video, error) {
			return videos, nil
		}, nil
	case "first":
		return func(videos []*source.Video) ([]*source.Video, error) {
			return lo.Subset(videos, 0, 1), nil
		}, nil
	case "last":
		return func(videos []*source.Video) ([]*source.Video, error) {
			return lo.Subset(videos, -1, 1), nil
		}, nil
	}

	if len(description) >= 2 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(videos []*source.Video) ([]*source.Video, error) {
			return lo.Filter(videos, func(v *source.Video, _ int) bool {
				return strings.Contains(strings.ToLower(v.Title), sub)
			}), nil
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		a, errA := strconv.Atoi(from)
		b, errB := strconv.Atoi(to)
		if errA != nil || errB != nil || a < 1 || b < a {
			return nil, fmt.Errorf("invalid range: %s", description)
		}
		return func(videos []*source.Video) ([]*source.Video, error) {
			if a > len(videos) {
				return []*source.Video{}, nil
			}
			return videos[a-1 : min(b, len(videos))], nil
		}, nil
	}

	if n, err := strconv.Atoi(description); err == nil && n >= 1 {
		return func(videos []*source.Video) ([]*source.Video, error) {
			if n > len(videos) {
				return []*source.Video{}, nil
			}
			return videos[n-1 : n], nil
		}, nil
	}

	return nil, fmt.Errorf("invalid videos filter: %s", description)
}
