// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the HTTP client shared by the probe, download,
// and mirror stages.
package httputil

import (
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/pdiddy/reference-archive/pkg/types"
)

// NewClient returns a client with a cookie jar so cookies set by a site
// persist for the rest of the run, and the configured User-Agent on every
// request that does not already set one.
//
// cfg.Timeout bounds connecting and waiting for response headers only. The
// body of a large download may take as long as it needs; a transfer cut off
// part way would leave a truncated file that later runs skip.
//
// The client follows redirects, which the mirror and DOI landing pages rely on.
func NewClient(cfg types.HTTPConfig) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Timeout > 0 {
		base.DialContext = (&net.Dialer{Timeout: cfg.Timeout, KeepAlive: 30 * time.Second}).DialContext
		base.TLSHandshakeTimeout = cfg.Timeout
		base.ResponseHeaderTimeout = cfg.Timeout
	}

	return &http.Client{
		Jar: jar,
		Transport: &userAgentTransport{
			base:      base,
			userAgent: cfg.UserAgent,
		},
	}, nil
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
