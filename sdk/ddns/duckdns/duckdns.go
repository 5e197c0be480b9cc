package duckdns

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/consts"
	"github.com/jxo-me/dduckdns/core/ddns"
	"github.com/jxo-me/dduckdns/core/logger"
	"github.com/jxo-me/dduckdns/internal/util"
	"github.com/pkg/errors"
)

const (
	Code string = "duckdns"
)

// DuckDNS Duck DNS 更新接口
type DuckDNS struct {
	endpoint string
	verbose  bool
	client   *http.Client
	logger   logger.ILogger
}

var _ ddns.IDDNS = (*DuckDNS)(nil)

// NewDuckDNS uses client for every update call; it must carry a timeout.
func NewDuckDNS(endpoint string, verbose bool, client *http.Client, log logger.ILogger) *DuckDNS {
	if endpoint == "" {
		endpoint = consts.DuckDNSEndpoint
	}
	return &DuckDNS{
		endpoint: endpoint,
		verbose:  verbose,
		client:   client,
		logger:   log,
	}
}

func (dd *DuckDNS) String() string {
	return Code
}

func (dd *DuckDNS) Endpoint() string {
	return dd.endpoint
}

// BuildRequest derives the update parameters of one domain. An Auto IPv6
// domain needs a non-empty autoIPv6.
func BuildRequest(domain config.Domain, token string, autoIPv6 *string, verbose bool) (ddns.UpdateRequest, error) {
	req := ddns.UpdateRequest{
		Domain:  domain.Name,
		Token:   token,
		Clear:   domain.Clear,
		Verbose: verbose,
	}
	if domain.IPv4.Mode == config.AddrLiteral {
		req.IPv4 = domain.IPv4.Addr
	}
	switch domain.IPv6.Mode {
	case config.AddrLiteral:
		req.IPv6 = domain.IPv6.Addr
	case config.AddrAuto:
		if autoIPv6 == nil || *autoIPv6 == "" {
			return req, ddns.ErrMissingAutoAddress
		}
		req.IPv6 = *autoIPv6
	}
	return req, nil
}

// Update 更新单个域名, 只发送一次请求
func (dd *DuckDNS) Update(ctx context.Context, domain config.Domain, token string, autoIPv6 *string) ddns.Result {
	result := ddns.Result{Domain: domain.Name, Status: consts.UpdatedFailed}

	req, err := BuildRequest(domain, token, autoIPv6, dd.verbose)
	if err != nil {
		result.Err = dd.fail(domain, ddns.KindPrecondition, "no address for ipv6 = \"auto\"", err)
		return result
	}

	body, kind, err := dd.request(ctx, req)
	if err != nil {
		result.Err = dd.fail(domain, kind, "request failed", err)
		return result
	}

	text := strings.TrimSpace(string(body))
	if text == consts.ResponseKO {
		result.Err = dd.fail(domain, ddns.KindRejected, "provider answered KO", nil)
		return result
	}

	result.Status = consts.UpdatedSuccess
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	if lines[0] != consts.ResponseOK {
		dd.logger.Warnf("%s: unexpected response %q, treating as success", domain.GetFullDomain(), text)
		return result
	}
	// OK\n<ipv4>\n<ipv6>\nUPDATED|NOCHANGE
	if len(lines) >= 4 {
		result.IPv4, result.IPv6 = lines[1], lines[2]
		if lines[3] == consts.ResponseNoChange {
			result.Status = consts.UpdatedNothing
		}
	}

	switch result.Status {
	case consts.UpdatedNothing:
		dd.logger.Infof("%s unchanged", domain.GetFullDomain())
	default:
		dd.logger.WithFields(map[string]any{
			"ipv4": result.IPv4,
			"ipv6": result.IPv6,
		}).Infof("%s updated", domain.GetFullDomain())
	}
	return result
}

func (dd *DuckDNS) fail(domain config.Domain, kind ddns.ErrorKind, reason string, err error) *ddns.UpdateError {
	updateErr := &ddns.UpdateError{
		Domain: domain.Name,
		Kind:   kind,
		Reason: reason,
		Err:    err,
	}
	dd.logger.Errorf("%s", updateErr)
	return updateErr
}

// request 统一请求接口. The token only ever appears in the URL that goes
// on the wire; logs and errors get the redacted one.
func (dd *DuckDNS) request(ctx context.Context, req ddns.UpdateRequest) ([]byte, ddns.ErrorKind, error) {
	rawURL, err := req.URL(dd.endpoint)
	if err != nil {
		return nil, ddns.KindPrecondition, err
	}
	safeURL, _ := req.Redacted().URL(dd.endpoint)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, ddns.KindPrecondition, errors.Errorf("invalid request %s", safeURL)
	}

	dd.logger.Debugf("GET %s", safeURL)
	resp, err := dd.client.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = safeURL
		}
		return nil, ddns.KindTransport, err
	}

	body, err := util.GetHTTPResponseOrg(resp, safeURL, nil)
	if err != nil {
		var statusErr *util.StatusError
		if errors.As(err, &statusErr) {
			return nil, ddns.KindStatus, err
		}
		return nil, ddns.KindTransport, err
	}
	return body, "", nil
}
