// Package network provides the pre-configured HTTP clients used to talk to the pitch backend.
package network

import (
	"net/http"
	"time"

	"github.com/pitchplay/pitchplay/key"
	"github.com/spf13/viper"
)

// Client is the shared HTTP client for manifest and segment requests.
// Timeouts are left to per-request contexts because segment downloads can be long.
var Client = &http.Client{
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with pool parameters sized for segment prefetching.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 32
	t.MaxIdleConnsPerHost = 16
	t.MaxConnsPerHost = 32
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}

// Default returns the client selected by configuration: the shared client,
// or one presenting a browser TLS fingerprint when network.impersonate_tls is set.
func Default() *http.Client {
	if viper.GetBool(key.NetworkImpersonateTLS) {
		return FingerprintClient()
	}
	return Client
}

// Bearer returns a request hook that adds an Authorization header when token is not empty.
func Bearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// BearerHeaders returns the same credential as a header map for native playback.
func BearerHeaders(token string) map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
