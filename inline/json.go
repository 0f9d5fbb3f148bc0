package inline

import (
	"encoding/json"

	"github.com/etldl/etldl/source"
	"github.com/invopop/jsonschema"
)

// Video is one listed lecture.
type Video struct {
	Title    string         `json:"title" jsonschema:"description=Lecture title as shown on the course page"`
	URL      string         `json:"url" jsonschema:"description=Lecture page"`
	Stream   *source.Stream `json:"stream,omitempty" jsonschema:"description=Resolved stream, present with --resolve"`
	Segments *int           `json:"segments,omitempty" jsonschema:"description=Number of segments, present with --resolve"`
	Error    string         `json:"error,omitempty"`
}

type Course struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	ID    string `json:"id"`
}

// Output is what the videos listing prints with --json.
type Output struct {
	Course *Course  `json:"course"`
	Videos []*Video `json:"videos"`
}

func newCourse(c *source.Course) *Course {
	if c == nil {
		return nil
	}
	return &Course{Title: c.Title, URL: c.URL, ID: c.ID()}
}

// Courses renders courses as a JSON array.
func Courses(courses []*source.Course) ([]byte, error) {
	out := make([]*Course, len(courses))
	for i, c := range courses {
		out[i] = newCourse(c)
	}
	return json.Marshal(out)
}

// Schema is the JSON schema of Output.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	return json.MarshalIndent(reflector.Reflect(&Output{}), "", "  ")
}
