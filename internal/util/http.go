package util

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/jxo-me/dduckdns/consts"
	"github.com/pkg/errors"
)

const (
	dialTimeout      = 5 * time.Second
	keepAliveTimeout = 30 * time.Second
)

// StatusError is returned for a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %s", e.URL, e.Status)
	}
	return fmt.Sprintf("%s returned %s: %q", e.URL, e.Status, e.Body)
}

// CreateHTTPClient returns a pooled client whose every request is bounded by timeout.
func CreateHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = consts.DefaultHTTPTimeout
	}
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	return client
}

// CreateNoProxyHTTPClient returns a client that dials only over network
// ("tcp4" or "tcp6") and never goes through a proxy, so the peer sees
// the address family we asked for.
func CreateNoProxyHTTPClient(network string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = consts.DefaultHTTPTimeout
	}
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAliveTimeout,
	}
	transport := cleanhttp.DefaultPooledTransport()
	transport.Proxy = nil
	transport.DialContext = func(ctx context.Context, _ string, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// GetHTTPResponseOrg reads the body of resp, limited to consts.MaxResponseSize.
// A non-2xx status yields a *StatusError carrying the trimmed body.
// url is only used in error text and should already be redacted.
func GetHTTPResponseOrg(resp *http.Response, url string, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, consts.MaxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", url)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
