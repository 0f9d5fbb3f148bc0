package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/network"
	"github.com/etldl/etldl/source"
	. "github.com/smartystreets/goconvey/convey"
)

// fakePortal serves a sign-on endpoint, a course list, one course page,
// a player page and a stream playlist.
type fakePortal struct {
	*httptest.Server
	homeHits atomic.Int64
	playlist atomic.Value
}

func newFakePortal() *fakePortal {
	fp := &fakePortal{}
	fp.playlist.Store("#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=1280x720\nchunklist_w5150.m3u8\n")

	mux := http.NewServeMux()
	mux.HandleFunc("/sso/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("si_id") != "student" || r.PostForm.Get("si_pwd") != "secret" {
			fmt.Fprint(w, `<html><body>invalid credentials</body></html>`)
			return
		}
		fmt.Fprint(w, `<form><input type="hidden" name="token" value="t0k3n"><input type="hidden" name="user" value="student"><input type="submit"></form>`)
	})
	mux.HandleFunc("/sso/cert", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("token") != "t0k3n" {
			http.Error(w, "bad token", http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "MoodleSession", Value: "ok", Path: "/"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fp.homeHits.Add(1)
		if c, err := r.Cookie("MoodleSession"); err != nil || c.Value != "ok" {
			fmt.Fprint(w, `<html><body><form class="login"></form></body></html>`)
			return
		}
		fmt.Fprint(w, `<div class="course_lists">
			<div class="course_box"><a href="/course/view.php?id=11" title="Algorithms (001)">Algorithms</a></div>
			<div class="course_box"><a href="/course/view.php?id=12" title="Operating Systems">OS</a></div>
		</div>`)
	})
	mux.HandleFunc("/course/view.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
			<div class="activityinstance"><a href="/mod/vod/view.php?id=1"><span class="instancename">Week 1 <span class="accesshide">VOD</span></span></a></div>
			<div class="activityinstance"><a href="/mod/resource/view.php?id=2"><span class="instancename">Slides</span></a></div>
			<div class="activityinstance"><a href="/mod/vod/view.php?id=3"><span class="instancename">Week 2</span></a></div>
			<div class="activityinstance"><span class="instancename">No link</span></div>
			<div class="activityinstance"><a href="/mod/vod/view.php?id=1"><span class="instancename">Week 1 again</span></a></div>`)
	})
	mux.HandleFunc("/mod/vod/viewer.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<script>var src = "%s/vod/_definst_/mp4:lecture1.mp4/playlist.m3u8";</script>`, fp.URL)
	})
	mux.HandleFunc("/vod/_definst_/mp4:lecture1.mp4/playlist.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fp.playlist.Load().(string))
	})

	fp.Server = httptest.NewServer(mux)
	return fp
}

func (fp *fakePortal) options() Options {
	return Options{
		BaseURL:       fp.URL + "/",
		LoginURL:      fp.URL + "/sso/login",
		CertURL:       fp.URL + "/sso/cert",
		StreamPattern: regexp.MustCompile(`(` + regexp.QuoteMeta(fp.URL) + `[^"'\s]*?\.mp4)`),
	}
}

func TestLogin(t *testing.T) {
	Convey("Given the sign-on endpoints", t, func() {
		fp := newFakePortal()
		defer fp.Close()

		Convey("Valid credentials open a session", func() {
			p := New(network.New(), fp.options())
			So(p.Login(context.Background(), "student", "secret"), ShouldBeNil)

			courses, err := p.Courses(context.Background())
			So(err, ShouldBeNil)
			So(courses, ShouldHaveLength, 2)
		})

		Convey("Invalid credentials are rejected", func() {
			p := New(network.New(), fp.options())
			So(p.Login(context.Background(), "student", "wrong"), ShouldEqual, ErrLoginFailed)
		})

		Convey("Without a session there is no course list", func() {
			p := New(network.New(), fp.options())
			_, err := p.Courses(context.Background())
			So(err, ShouldEqual, ErrNoCourseList)
		})
	})
}

func TestListings(t *testing.T) {
	Convey("Given a signed-in portal", t, func() {
		fp := newFakePortal()
		defer fp.Close()

		p := New(network.New(), fp.options())
		So(p.Login(context.Background(), "student", "secret"), ShouldBeNil)

		Convey("Courses are read in page order", func() {
			courses, err := p.Courses(context.Background())
			So(err, ShouldBeNil)
			So(courses[0].Title, ShouldEqual, "Algorithms (001)")
			So(courses[0].URL, ShouldEqual, fp.URL+"/course/view.php?id=11")
			So(courses[0].ID(), ShouldEqual, "11")
			So(courses[1].Title, ShouldEqual, "Operating Systems")
		})

		Convey("Videos keep only lecture links, once each", func() {
			course := &source.Course{Title: "Algorithms", URL: fp.URL + "/course/view.php?id=11"}
			videos, err := p.Videos(context.Background(), course)
			So(err, ShouldBeNil)
			So(videos, ShouldHaveLength, 2)
			So(videos[0].Title, ShouldEqual, "Week 1")
			So(videos[0].URL, ShouldEqual, fp.URL+"/mod/vod/view.php?id=1")
			So(videos[1].Title, ShouldEqual, "Week 2")
		})

		Convey("A stream resolves to its endpoint and media id", func() {
			video := &source.Video{Title: "Week 1", URL: fp.URL + "/mod/vod/view.php?id=1"}
			stream, err := p.ResolveStream(context.Background(), video)
			So(err, ShouldBeNil)
			So(stream.Endpoint, ShouldEqual, fp.URL+"/vod/_definst_/mp4:lecture1.mp4")
			So(stream.MediaID, ShouldEqual, "w5150")
			So(stream.SegmentURL(0), ShouldEqual, fp.URL+"/vod/_definst_/mp4:lecture1.mp4/media_w5150_0.ts")
		})

		Convey("A playlist without variants falls back to a text search", func() {
			fp.playlist.Store("garbage\nchunklist_w77.m3u8\n")
			video := &source.Video{Title: "Week 1", URL: fp.URL + "/mod/vod/view.php?id=1"}
			stream, err := p.ResolveStream(context.Background(), video)
			So(err, ShouldBeNil)
			So(stream.MediaID, ShouldEqual, "w77")
		})

		Convey("A playlist without a chunklist fails resolution", func() {
			fp.playlist.Store("#EXTM3U\n")
			video := &source.Video{Title: "Week 1", URL: fp.URL + "/mod/vod/view.php?id=1"}
			_, err := p.ResolveStream(context.Background(), video)
			So(errors.Is(err, ErrNoMediaID), ShouldBeTrue)
		})

		Convey("A player page without a stream fails resolution", func() {
			video := &source.Video{Title: "Slides", URL: fp.URL + "/mod/resource/view.php?id=2"}
			_, err := p.ResolveStream(context.Background(), video)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCoursesCache(t *testing.T) {
	Convey("Given a portal with a course cache", t, func() {
		filesystem.SetMemMapFs()
		fp := newFakePortal()
		defer fp.Close()

		opts := fp.options()
		opts.CoursesCache = "/cache/courses.json"
		p := New(network.New(), opts)
		So(p.Login(context.Background(), "student", "secret"), ShouldBeNil)

		Convey("The second listing is served from the cache", func() {
			first, err := p.Courses(context.Background())
			So(err, ShouldBeNil)
			second, err := p.Courses(context.Background())
			So(err, ShouldBeNil)

			So(second, ShouldResemble, first)
			So(fp.homeHits.Load(), ShouldEqual, 1)

			Convey("Refresh goes back to the portal", func() {
				_, err := p.Refresh(context.Background())
				So(err, ShouldBeNil)
				So(fp.homeHits.Load(), ShouldEqual, 2)
			})
		})
	})
}
