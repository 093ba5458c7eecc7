package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout caps a single outbound request. Callers normally set a
// shorter per-request deadline through the context.
const DefaultTimeout = 30 * time.Second

const UserAgent = "twweather/1.0 (+LINE weather bot)"

type userAgentTransport struct {
	next http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	return t.next.RoundTrip(req)
}

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: userAgentTransport{next: http.DefaultTransport},
	}
}
