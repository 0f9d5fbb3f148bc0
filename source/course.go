package source

import (
	"regexp"

	"github.com/etldl/etldl/util"
)

var courseIDPattern = regexp.MustCompile(`[?&]id=(\d+)`)

// Course is an enrolled course on the portal.
type Course struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (c *Course) String() string {
	return c.Title
}

// ID is the numeric id in the course URL, or an empty string.
func (c *Course) ID() string {
	m := courseIDPattern.FindStringSubmatch(c.URL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Dirname is the directory name the course is downloaded to.
func (c *Course) Dirname() string {
	name := util.SanitizeFilename(c.Title)
	if name == "" {
		return "course_" + c.ID()
	}
	return name
}
