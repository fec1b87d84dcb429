package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pitchplay/pitchplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestBearer(t *testing.T) {
	Convey("Given a bearer hook", t, func() {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/a.m3u8", nil)

		Convey("It sets the Authorization header for a token", func() {
			Bearer("secret")(req)
			So(req.Header.Get("Authorization"), ShouldEqual, "Bearer secret")
		})

		Convey("It leaves the request alone without a token", func() {
			Bearer("")(req)
			So(req.Header.Get("Authorization"), ShouldBeEmpty)
			So(BearerHeaders(""), ShouldBeNil)
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Default follows network.impersonate_tls", t, func() {
		viper.Set(key.NetworkImpersonateTLS, false)
		So(Default(), ShouldEqual, Client)

		viper.Set(key.NetworkImpersonateTLS, true)
		So(Default(), ShouldEqual, FingerprintClient())

		viper.Set(key.NetworkImpersonateTLS, false)
	})
}

func TestFingerprintTransport(t *testing.T) {
	Convey("Given a plain HTTP server", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		Convey("Plain HTTP requests bypass the TLS dialers", func() {
			resp, err := FingerprintClient().Get(server.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
