package common

import (
	_ "embed"
	"net/http"
	"strings"
	"time"
)

//go:embed VERSION
var version string

// DefaultTimeout is the timeout used by clients that don't specify their own.
const DefaultTimeout = 30 * time.Second

type userAgentTransport struct {
	transport http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so we don't mutate headers on a request the caller may reuse.
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.transport.RoundTrip(req)
}

// Version returns the library version from the embedded VERSION file.
func Version() string {
	return strings.TrimSpace(version)
}

// HTTPClient returns an http client with the given timeout and a go-ecos
// user-agent set on every request.
func HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			transport: http.DefaultTransport,
			userAgent: "go-ecos/" + Version(),
		},
		Timeout: timeout,
	}
}
