package util

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPResponseOrg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "upstream down\n")
			return
		}
		io.WriteString(w, "OK")
	}))
	defer srv.Close()

	client := CreateHTTPClient(time.Second)

	resp, err := client.Get(srv.URL)
	body, err := GetHTTPResponseOrg(resp, srv.URL, err)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))

	resp, err = client.Get(srv.URL + "/broken")
	_, err = GetHTTPResponseOrg(resp, "broken", err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Body)
	assert.Contains(t, err.Error(), "broken returned 502")
}

func TestCreateHTTPClientDefaultsTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, CreateHTTPClient(0).Timeout)
	assert.Equal(t, 10*time.Second, CreateNoProxyHTTPClient("tcp6", -1).Timeout)
}

func TestHTTPClientTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := CreateHTTPClient(20 * time.Millisecond).Get(srv.URL)
	assert.Error(t, err)
}

func TestNoProxyClientRespectsNetwork(t *testing.T) {
	// httptest listens on 127.0.0.1, which a tcp6-only dialer cannot reach.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "reached")
	}))
	defer srv.Close()

	_, err := CreateNoProxyHTTPClient("tcp6", time.Second).Get(srv.URL)
	assert.Error(t, err)

	resp, err := CreateNoProxyHTTPClient("tcp4", time.Second).Get(srv.URL)
	body, err := GetHTTPResponseOrg(resp, srv.URL, err)
	require.NoError(t, err)
	assert.Equal(t, "reached", string(body))
}
