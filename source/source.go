// Package source defines the courses, lectures and streams exchanged between the portal and the downloader.
package source

import "context"

// Portal lists what the signed-in user can download and resolves lecture streams.
type Portal interface {
	// Courses returns the enrolled courses in portal order.
	Courses(ctx context.Context) ([]*Course, error)

	// Videos returns the lecture videos of a course, without duplicates.
	Videos(ctx context.Context, course *Course) ([]*Video, error)

	// ResolveStream finds the segment endpoint and media id of a lecture.
	ResolveStream(ctx context.Context, video *Video) (Stream, error)
}
