// Package network builds the HTTP client shared by the portal session and the segment workers.
package network

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/etldl/etldl/constant"
	"github.com/samber/lo"
	"golang.org/x/net/publicsuffix"
)

// Client carries the portal session cookies. Segment requests go through it too
// so that its connection pool is reused across workers.
var Client = New()

// New returns a client with a fresh cookie jar and a tuned transport.
// Per-request deadlines come from contexts, so the client itself has no overall timeout.
func New() *http.Client {
	jar := lo.Must(cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}))
	return &http.Client{
		Jar:       jar,
		Transport: &userAgent{next: newTransport()},
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 64
	t.MaxConnsPerHost = 128
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	return u.next.RoundTrip(req)
}
