package inline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/source"
)

// Pick lists the courses of portal and applies picker.
func Pick(ctx context.Context, portal source.Portal, picker CoursePicker) (*source.Course, error) {
	courses, err := portal.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return picker(courses)
}

// Select lists the lectures of course and applies filter, when present.
func Select(ctx context.Context, portal source.Portal, course *source.Course, filter VideosFilter) ([]*source.Video, error) {
	videos, err := portal.Videos(ctx, course)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return videos, nil
	}
	return filter(videos)
}

// Run prints the lectures of the picked course.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	picker, ok := options.CoursePicker.Get()
	if !ok {
		return fmt.Errorf("a course is required")
	}

	course, err := Pick(ctx, options.Portal, picker)
	if err != nil {
		return err
	}

	videos, err := Select(ctx, options.Portal, course, options.VideosFilter.OrEmpty())
	if err != nil {
		return err
	}

	listed := make([]*Video, len(videos))
	for i, v := range videos {
		listed[i] = &Video{Title: v.Title, URL: v.URL}
		if options.Resolve {
			resolve(ctx, options, v, listed[i])
		}
	}

	if options.Json {
		return json.NewEncoder(options.Out).Encode(&Output{Course: newCourse(course), Videos: listed})
	}

	for _, v := range listed {
		switch {
		case v.Error != "":
			fmt.Fprintf(options.Out, "%s\t%s\terror: %s\n", v.Title, v.URL, v.Error)
		case v.Stream != nil && v.Segments != nil:
			fmt.Fprintf(options.Out, "%s\t%s\t%d\n", v.Title, v.Stream.SegmentURL(0), *v.Segments)
		case v.Stream != nil:
			fmt.Fprintf(options.Out, "%s\t%s\n", v.Title, v.Stream.SegmentURL(0))
		default:
			fmt.Fprintf(options.Out, "%s\t%s\n", v.Title, v.URL)
		}
	}
	return nil
}

func resolve(ctx context.Context, options *Options, video *source.Video, listed *Video) {
	stream, err := options.Portal.ResolveStream(ctx, video)
	if err != nil {
		log.Warnf("resolve %s: %v", video.Title, err)
		listed.Error = err.Error()
		return
	}
	listed.Stream = &stream

	if options.Locator == nil {
		return
	}

	count, err := options.Locator.Locate(ctx, stream)
	if err != nil {
		listed.Error = err.Error()
		return
	}
	listed.Segments = &count
}
