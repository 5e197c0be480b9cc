package ddns

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/consts"
	"github.com/pkg/errors"
)

// ErrMissingAutoAddress is returned when a domain wants the auto IPv6
// address but none was resolved for this run.
var ErrMissingAutoAddress = errors.New("auto IPv6 address requested but none was resolved")

// IDDNS interface
type IDDNS interface {
	String() string
	// Endpoint GetEndpoint
	Endpoint() string
	// Update 推送单个域名的记录, autoIPv6 为本次运行自动获取的IPv6地址
	Update(ctx context.Context, domain config.Domain, token string, autoIPv6 *string) Result
}

type ErrorKind string

const (
	// KindTransport no response was received
	KindTransport ErrorKind = "transport"
	// KindStatus the provider answered outside 2xx
	KindStatus ErrorKind = "status"
	// KindRejected the provider answered KO
	KindRejected ErrorKind = "rejected"
	// KindAddress the auto address lookup failed
	KindAddress ErrorKind = "address"
	// KindPrecondition the request could not be built
	KindPrecondition ErrorKind = "precondition"
)

// UpdateError is the failure of one domain. It never carries the token.
type UpdateError struct {
	Domain string
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *UpdateError) Error() string {
	msg := fmt.Sprintf("updating %s: %s: %s", e.Domain, e.Kind, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// UpdateRequest 单个域名的更新请求
type UpdateRequest struct {
	Domain  string
	Token   string
	IPv4    string // empty: omitted
	IPv6    string // empty: omitted
	Clear   bool
	Verbose bool
}

// Values returns the query parameters of the update call.
func (r UpdateRequest) Values() url.Values {
	v := url.Values{}
	v.Set("domains", r.Domain)
	v.Set("token", r.Token)
	if r.IPv4 != "" {
		v.Set("ip", r.IPv4)
	}
	if r.IPv6 != "" {
		v.Set("ipv6", r.IPv6)
	}
	if r.Clear {
		v.Set("clear", "true")
	}
	if r.Verbose {
		v.Set("verbose", "true")
	}
	return v
}

// URL merges the request parameters into endpoint.
func (r UpdateRequest) URL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parsing endpoint")
	}
	q := u.Query()
	for k, vs := range r.Values() {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Redacted returns a copy that is safe to log.
func (r UpdateRequest) Redacted() UpdateRequest {
	if r.Token != "" {
		r.Token = consts.RedactedValue
	}
	return r
}

// Result 单个域名的更新结果
type Result struct {
	Domain string
	Status consts.UpdateStatusType
	// IPv4 and IPv6 are the addresses the provider reported, if any
	IPv4 string
	IPv6 string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Status != consts.UpdatedFailed
}

// AggregateStatus 一个失败，全部失败; 否则一个成功，就成功
func AggregateStatus(results []Result) consts.UpdateStatusType {
	successNum := 0
	for _, r := range results {
		switch r.Status {
		case consts.UpdatedFailed:
			return consts.UpdatedFailed
		case consts.UpdatedSuccess:
			successNum++
		}
	}
	if successNum > 0 {
		return consts.UpdatedSuccess
	}
	return consts.UpdatedNothing
}
