package duckdns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jxo-me/dduckdns/config"
	"github.com/jxo-me/dduckdns/consts"
	"github.com/jxo-me/dduckdns/core/ddns"
	"github.com/jxo-me/dduckdns/internal/util"
	xlogger "github.com/jxo-me/dduckdns/sdk/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok123"

type fakeProvider struct {
	srv     *httptest.Server
	calls   atomic.Int32
	queries chan url.Values
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{queries: make(chan url.Values, 16)}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/update", r.URL.Path)
		p.queries <- r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) engine(verbose bool) *DuckDNS {
	return NewDuckDNS(p.srv.URL+"/update", verbose, util.CreateHTTPClient(time.Second), xlogger.Nop())
}

func strPtr(s string) *string {
	return &s
}

func TestBuildRequest(t *testing.T) {
	cases := []struct {
		name     string
		settings config.DomainSettings
		autoIPv6 *string
		verbose  bool
		want     url.Values
	}{
		{
			name:     "ipv4 literal only",
			settings: config.DomainSettings{IP: "1.1.1.1"},
			want:     url.Values{"domains": {"foo"}, "token": {testToken}, "ip": {"1.1.1.1"}},
		},
		{
			name: "both unset",
			want: url.Values{"domains": {"foo"}, "token": {testToken}},
		},
		{
			name:     "auto ipv6",
			settings: config.DomainSettings{IPv6: "auto"},
			autoIPv6: strPtr("2606:4700::1"),
			want:     url.Values{"domains": {"foo"}, "token": {testToken}, "ipv6": {"2606:4700::1"}},
		},
		{
			name:     "literal ipv6 ignores auto",
			settings: config.DomainSettings{IPv6: "2001:db8::2"},
			autoIPv6: strPtr("2606:4700::1"),
			want:     url.Values{"domains": {"foo"}, "token": {testToken}, "ipv6": {"2001:db8::2"}},
		},
		{
			name:     "clear and verbose",
			settings: config.DomainSettings{Clear: true},
			verbose:  true,
			want:     url.Values{"domains": {"foo"}, "token": {testToken}, "clear": {"true"}, "verbose": {"true"}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req, err := BuildRequest(config.NewDomain("foo", c.settings), testToken, c.autoIPv6, c.verbose)
			require.NoError(t, err)
			assert.Equal(t, c.want, req.Values())
		})
	}
}

func TestBuildRequestMissingAuto(t *testing.T) {
	_, err := BuildRequest(config.NewDomain("foo", config.DomainSettings{IPv6: "auto"}), testToken, nil, false)
	assert.True(t, errors.Is(err, ddns.ErrMissingAutoAddress))
}

func TestUpdateOK(t *testing.T) {
	p := newFakeProvider(t, http.StatusOK, "OK")
	res := p.engine(false).Update(context.Background(),
		config.NewDomain("foo", config.DomainSettings{IP: "1.1.1.1"}), testToken, nil)

	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, consts.UpdatedSuccess, res.Status)
	assert.Equal(t, int32(1), p.calls.Load())

	q := <-p.queries
	assert.Equal(t, "foo", q.Get("domains"))
	assert.Equal(t, testToken, q.Get("token"))
	assert.Equal(t, "1.1.1.1", q.Get("ip"))
	assert.False(t, q.Has("ipv6"))
	assert.False(t, q.Has("clear"))
	assert.False(t, q.Has("verbose"))
}

func TestUpdateUnexpectedBodyIsSuccess(t *testing.T) {
	p := newFakeProvider(t, http.StatusOK, "hello")
	res := p.engine(false).Update(context.Background(), config.NewDomain("foo", config.DomainSettings{}), testToken, nil)
	assert.True(t, res.OK())
}

func TestUpdateVerbose(t *testing.T) {
	cases := []struct {
		body   string
		status consts.UpdateStatusType
	}{
		{"OK\n1.1.1.1\n2606:4700::1\nUPDATED", consts.UpdatedSuccess},
		{"OK\r\n1.1.1.1\r\n2606:4700::1\r\nNOCHANGE\r\n", consts.UpdatedNothing},
	}
	for _, c := range cases {
		t.Run(string(c.status), func(t *testing.T) {
			p := newFakeProvider(t, http.StatusOK, c.body)
			res := p.engine(true).Update(context.Background(),
				config.NewDomain("foo", config.DomainSettings{IPv6: "auto"}), testToken, strPtr("2606:4700::1"))

			require.NoError(t, res.Err)
			assert.True(t, res.OK())
			assert.Equal(t, c.status, res.Status)
			assert.Equal(t, "1.1.1.1", res.IPv4)
			assert.Equal(t, "2606:4700::1", res.IPv6)
			assert.Equal(t, "true", (<-p.queries).Get("verbose"))
		})
	}
}

func TestUpdateFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   ddns.ErrorKind
	}{
		{"rejected", http.StatusOK, "KO", ddns.KindRejected},
		{"rejected with newline", http.StatusOK, "KO\n", ddns.KindRejected},
		{"server error", http.StatusInternalServerError, "oops", ddns.KindStatus},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := newFakeProvider(t, c.status, c.body)
			res := p.engine(false).Update(context.Background(), config.NewDomain("foo", config.DomainSettings{}), testToken, nil)

			assert.False(t, res.OK())
			assert.Equal(t, consts.UpdatedFailed, res.Status)
			var updateErr *ddns.UpdateError
			require.True(t, errors.As(res.Err, &updateErr))
			assert.Equal(t, c.kind, updateErr.Kind)
			assert.Equal(t, "foo", updateErr.Domain)
			assert.NotContains(t, res.Err.Error(), testToken)
			assert.Equal(t, int32(1), p.calls.Load())
		})
	}
}

func TestUpdateTransportFailureRedactsToken(t *testing.T) {
	p := newFakeProvider(t, http.StatusOK, "OK")
	engine := p.engine(false)
	p.srv.Close()

	res := engine.Update(context.Background(), config.NewDomain("foo", config.DomainSettings{}), testToken, nil)

	var updateErr *ddns.UpdateError
	require.True(t, errors.As(res.Err, &updateErr))
	assert.Equal(t, ddns.KindTransport, updateErr.Kind)
	assert.NotContains(t, res.Err.Error(), testToken)
	assert.Contains(t, res.Err.Error(), "token="+consts.RedactedValue)
}

func TestUpdateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	engine := NewDuckDNS(srv.URL, false, util.CreateHTTPClient(50*time.Millisecond), xlogger.Nop())
	res := engine.Update(context.Background(), config.NewDomain("foo", config.DomainSettings{}), testToken, nil)

	var updateErr *ddns.UpdateError
	require.True(t, errors.As(res.Err, &updateErr))
	assert.Equal(t, ddns.KindTransport, updateErr.Kind)
	assert.NotContains(t, res.Err.Error(), testToken)
}

func TestUpdateMissingAutoMakesNoCall(t *testing.T) {
	p := newFakeProvider(t, http.StatusOK, "OK")
	res := p.engine(false).Update(context.Background(),
		config.NewDomain("foo", config.DomainSettings{IPv6: "auto"}), testToken, nil)

	var updateErr *ddns.UpdateError
	require.True(t, errors.As(res.Err, &updateErr))
	assert.Equal(t, ddns.KindPrecondition, updateErr.Kind)
	assert.True(t, errors.Is(res.Err, ddns.ErrMissingAutoAddress))
	assert.Equal(t, int32(0), p.calls.Load())
}
