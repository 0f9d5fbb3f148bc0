// Package portal talks to the learning portal: single sign-on, course and
// lecture listings, and resolution of lecture streams.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
)

var (
	// ErrLoginFailed means the sign-on endpoint did not hand out a certificate form.
	ErrLoginFailed = errors.New("login failed: check your username and password")

	// ErrNoCourseList means the home page has no course list, usually because the session is not signed in.
	ErrNoCourseList = errors.New("course list not found on the portal page")
)

// CoursesLifetime is how long a cached course list stays valid.
const CoursesLifetime = 24 * time.Hour

// Options locate the portal endpoints.
type Options struct {
	BaseURL  string
	LoginURL string
	CertURL  string

	// StreamPattern finds the stream endpoint in a player page. The first
	// capture group, or the whole match, is the endpoint.
	StreamPattern *regexp.Regexp

	// CoursesCache is the file the course list is cached in. Empty disables caching.
	CoursesCache string
}

// DefaultOptions reads the portal.* settings.
func DefaultOptions() (Options, error) {
	pattern, err := regexp.Compile(viper.GetString(key.PortalStreamPattern))
	if err != nil {
		return Options{}, fmt.Errorf("invalid %s: %w", key.PortalStreamPattern, err)
	}

	opts := Options{
		BaseURL:       viper.GetString(key.PortalBaseURL),
		LoginURL:      viper.GetString(key.PortalLoginURL),
		CertURL:       viper.GetString(key.PortalCertURL),
		StreamPattern: pattern,
	}
	if viper.GetBool(key.PortalCacheCourses) {
		opts.CoursesCache = where.Courses()
	}
	return opts, nil
}

// Portal is a signed-in session. It is safe for concurrent use once Login has returned.
type Portal struct {
	client  *http.Client
	opts    Options
	courses *gache.Cache[[]*source.Course]
}

var _ source.Portal = (*Portal)(nil)

// New returns a portal using client, whose cookie jar holds the session.
func New(client *http.Client, opts Options) *Portal {
	p := &Portal{client: client, opts: opts}
	if opts.CoursesCache != "" {
		p.courses = gache.New[[]*source.Course](&gache.Options{
			Path:       opts.CoursesCache,
			Lifetime:   CoursesLifetime,
			FileSystem: &filesystem.GacheFs{},
		})
	}
	return p
}

// Login signs in with the sign-on form and relays the returned certificate
// form so that the portal session cookies are set.
func (p *Portal) Login(ctx context.Context, username, password string) error {
	doc, err := p.post(ctx, p.opts.LoginURL, url.Values{
		"si_id":  {username},
		"si_pwd": {password},
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	cert := url.Values{}
	doc.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		cert.Set(name, input.AttrOr("value", ""))
	})

	if len(cert) == 0 {
		return ErrLoginFailed
	}

	if _, err = p.post(ctx, p.opts.CertURL, cert); err != nil {
		return fmt.Errorf("login certificate: %w", err)
	}

	log.Infof("signed in as %s", username)
	return nil
}

// Courses returns the enrolled courses, from the cache when it is fresh.
func (p *Portal) Courses(ctx context.Context) ([]*source.Course, error) {
	if p.courses != nil {
		cached, expired, err := p.courses.Get()
		if err == nil && !expired && len(cached) > 0 {
			return cached, nil
		}
	}
	return p.Refresh(ctx)
}

// Refresh fetches the course list from the portal and updates the cache.
func (p *Portal) Refresh(ctx context.Context) ([]*source.Course, error) {
	doc, err := p.get(ctx, p.opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}

	list := doc.Find(".course_lists")
	if list.Length() == 0 {
		return nil, ErrNoCourseList
	}

	var courses []*source.Course
	list.Find(".course_box").Each(func(_ int, box *goquery.Selection) {
		a := box.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		courses = append(courses, &source.Course{
			Title: strings.TrimSpace(a.AttrOr("title", a.Text())),
			URL:   resolve(p.opts.BaseURL, href),
		})
	})

	if p.courses != nil {
		if err := p.courses.Set(courses); err != nil {
			log.Warnf("cache courses: %v", err)
		}
	}
	return courses, nil
}

// Videos lists the lecture videos of course in page order.
func (p *Portal) Videos(ctx context.Context, course *source.Course) ([]*source.Video, error) {
	doc, err := p.get(ctx, course.URL)
	if err != nil {
		return nil, fmt.Errorf("videos of %s: %w", course.Title, err)
	}

	var videos []*source.Video
	doc.Find(".activityinstance").Each(func(_ int, instance *goquery.Selection) {
		href, ok := instance.Find("a").First().Attr("href")
		if !ok || !strings.Contains(href, "vod") {
			return
		}

		videos = append(videos, &source.Video{
			Title: ownText(instance.Find(".instancename").First()),
			URL:   resolve(course.URL, href),
		})
	})

	return source.Dedupe(videos), nil
}

// ownText is the first text node directly inside sel, ignoring nested
// elements such as the activity type label.
func ownText(sel *goquery.Selection) string {
	var text string
	sel.Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if goquery.NodeName(node) != "#text" {
			return true
		}
		if t := strings.TrimSpace(node.Text()); t != "" {
			text = t
			return false
		}
		return true
	})
	return text
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func (p *Portal) get(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return p.document(req)
}

func (p *Portal) post(ctx context.Context, target string, form url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.document(req)
}

func (p *Portal) document(req *http.Request) (*goquery.Document, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s %s: %s", req.Method, req.URL, resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
