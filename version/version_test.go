package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare orders semantic versions", t, func() {
		c, err := Compare("0.3.0", "v0.2.9")
		So(err, ShouldBeNil)
		So(c, ShouldEqual, 1)

		c, err = Compare("1.0.0", "1.0.0")
		So(err, ShouldBeNil)
		So(c, ShouldEqual, 0)

		c, err = Compare("1.2.3", "1.10.0")
		So(err, ShouldBeNil)
		So(c, ShouldEqual, -1)

		c, err = Compare("v1.2", "1.2.0-rc.1")
		So(err, ShouldBeNil)
		So(c, ShouldEqual, 0)

		_, err = Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)

		_, err = Compare("1", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestFetchLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		body := `{"tag_name":"v0.4.1"}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if body == "" {
				http.Error(w, "rate limited", http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		Convey("The tag is returned without its prefix", func() {
			v, err := fetchLatest(server.URL)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.4.1")
		})

		Convey("An empty tag is an error", func() {
			body = `{"tag_name":""}`
			_, err := fetchLatest(server.URL)
			So(err, ShouldNotBeNil)
		})

		Convey("A failed request is an error", func() {
			body = ""
			_, err := fetchLatest(server.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
