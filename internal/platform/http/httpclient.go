// Package http builds the outbound HTTP client shared by the candle sources.
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the service to upstream APIs.
const DefaultUserAgent = "drifter/1.0"

// NewHTTPClient returns a client tuned for repeated calls to a few upstream hosts.
// http.DefaultClient has no timeout, so every source uses this client instead.
// Requests without a User-Agent get DefaultUserAgent.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: userAgent{next: t, value: DefaultUserAgent}}
}

type userAgent struct {
	next  http.RoundTripper
	value string
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", u.value)
	return u.next.RoundTrip(r)
}
