package resolver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/core/resolver"
	"github.com/jxo-me/dduckdns/internal/util"
)

const Code = "web"

// WebResolver 通过接口获取公网地址, 只走 IPv6
type WebResolver struct {
	url    string
	client *http.Client
	logger logger.ILogger
}

var _ resolver.IAddrResolver = (*WebResolver)(nil)

func NewWebResolver(url string, timeout time.Duration, log logger.ILogger) *WebResolver {
	return &WebResolver{
		url:    url,
		client: util.CreateNoProxyHTTPClient("tcp6", timeout),
		logger: log,
	}
}

// WithClient replaces the IPv6-only client.
func (r *WebResolver) WithClient(client *http.Client) *WebResolver {
	r.client = client
	return r
}

func (r *WebResolver) String() string {
	return Code
}

// Resolve GETs the echo URL once and returns the trimmed body. The body
// is not checked to be an IPv6 literal.
func (r *WebResolver) Resolve(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", &resolver.Error{URL: r.url, Reason: "invalid request", Err: err}
	}

	resp, err := r.client.Do(req)
	body, err := util.GetHTTPResponseOrg(resp, r.url, err)
	if err != nil {
		return "", &resolver.Error{URL: r.url, Reason: "request failed", Err: err}
	}

	addr := strings.TrimSpace(string(body))
	if addr == "" {
		return "", &resolver.Error{URL: r.url, Reason: "empty response"}
	}
	r.logger.Debugf("resolved IPv6 address %s via %s", addr, r.url)
	return addr, nil
}
