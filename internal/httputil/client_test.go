// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reference-archive/pkg/types"
)

func TestNewClient_SetsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	client, err := NewClient(types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "reference-archive-test/0.1"})
	require.NoError(t, err)
	defer client.CloseIdleConnections()

	req, err := http.NewRequest(http.MethodHead, ts.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "reference-archive-test/0.1", got)
	assert.Empty(t, req.Header.Get("User-Agent"), "caller's request must not be modified")
}

func TestNewClient_TimeoutCoversHeadersOnly(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		io.WriteString(w, "%PDF-1.4\n")
		w.(http.Flusher).Flush()
		time.Sleep(300 * time.Millisecond)
		io.WriteString(w, "%EOF\n")
	}))
	defer ts.Close()

	client, err := NewClient(types.HTTPConfig{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	defer client.CloseIdleConnections()
	assert.Zero(t, client.Timeout)

	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "a slow body must not hit the header timeout")
	assert.Equal(t, "%PDF-1.4\n%EOF\n", string(body))
}

func TestNewClient_HeaderTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	client, err := NewClient(types.HTTPConfig{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	defer client.CloseIdleConnections()

	_, err = client.Get(ts.URL)
	assert.Error(t, err)
}

func TestNewClient_KeepsExplicitUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	client, err := NewClient(types.HTTPConfig{UserAgent: "default/1"})
	require.NoError(t, err)
	defer client.CloseIdleConnections()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom/2")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "custom/2", got)
}

func TestNewClient_PersistsCookies(t *testing.T) {
	var sawCookie bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/landing":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		case "/file":
			c, err := r.Cookie("session")
			sawCookie = err == nil && c.Value == "abc"
		}
	}))
	defer ts.Close()

	client, err := NewClient(types.HTTPConfig{})
	require.NoError(t, err)
	defer client.CloseIdleConnections()

	for _, path := range []string{"/landing", "/file"} {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.True(t, sawCookie, "cookie from the first response should be sent on the second request")
}
