// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// ProbeContentType sends a HEAD request for rawURL and returns the media type
// of its Content-Type header, lower-cased and without parameters. No body is
// transferred and the request is not retried.
func ProbeContentType(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: HEAD %s: %w", ErrFetchFailed, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HEAD %s returned HTTP %d", ErrProbeFailed, rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return "", fmt.Errorf("%w: HEAD %s returned HTTP %d and no Content-Type header", ErrProbeFailed, rawURL, resp.StatusCode)
	}
	return mediaType(contentType), nil
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
