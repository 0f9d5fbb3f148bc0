package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etldl/etldl/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a server that sets a cookie", t, func() {
		var gotAgent, gotCookie string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.UserAgent()
			if c, err := r.Cookie("session"); err == nil {
				gotCookie = c.Value
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		}))
		defer srv.Close()

		client := New()

		Convey("The client sends its user agent and replays cookies", func() {
			resp, err := client.Get(srv.URL)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(gotAgent, ShouldEqual, constant.UserAgent)

			resp, err = client.Get(srv.URL + "/again")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(gotCookie, ShouldEqual, "abc")
		})
	})
}
