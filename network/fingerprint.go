package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

var (
	fingerprintClient     *http.Client
	fingerprintClientOnce sync.Once
)

// FingerprintClient returns a client whose TLS handshakes mimic Chrome.
// It prefers HTTP/2 and falls back to HTTP/1.1 when h2 cannot be negotiated.
func FingerprintClient() *http.Client {
	fingerprintClientOnce.Do(func() {
		fingerprintClient = &http.Client{Transport: newFingerprintTransport()}
	})
	return fingerprintClient
}

type fingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func newFingerprintTransport() *fingerprintTransport {
	h1 := newTransport()
	h1.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	}
	h1.ForceAttemptHTTP2 = false

	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		},
		h1: h1,
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}

	fallback := req.Clone(req.Context())
	if req.GetBody != nil {
		if fallback.Body, err = req.GetBody(); err != nil {
			return nil, err
		}
	}

	return t.h1.RoundTrip(fallback)
}

// dialTLS creates a TLS connection with Chrome's Client Hello.
// A nil protos keeps Chrome's own ALPN list (h2 and http/1.1).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
