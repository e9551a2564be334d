package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "x", r.Header.Get("X-Extra"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", time.Second)
	require.NoError(t, err)
	c.Header.Set("Authorization", "Bearer tok")

	var out map[string]string
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/echo", map[string]string{"X-Extra": "x"}, map[string]string{"msg": "hola"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hola", out["echo"])
}

func TestDoJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.True(t, he.Retryable())
	assert.Equal(t, "slow down", he.Body)
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(err))
}

func TestResolveURL(t *testing.T) {
	c, err := New("", 0)
	require.NoError(t, err)

	_, err = c.resolveURL("/relative")
	assert.Error(t, err)

	u, err := c.resolveURL("https://example.org/a")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/a", u)

	_, err = New("::not a url", 0)
	assert.Error(t, err)
}
