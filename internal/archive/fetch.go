// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Renderer is the browser capability used for rendered-page work. Each call
// opens its own page and closes it before returning.
type Renderer interface {
	// CaptureSnapshot navigates to url, waits for the page to settle, and
	// returns an MHTML snapshot of the rendered document.
	CaptureSnapshot(ctx context.Context, url string) (string, error)

	// RenderHTML navigates to url, waits for the load event, and returns the
	// serialized DOM.
	RenderHTML(ctx context.Context, url string) (string, error)
}

// Fetch archives rawURL at path. MHTML targets are captured from a rendered
// page; everything else is downloaded byte for byte.
func Fetch(ctx context.Context, client *http.Client, r Renderer, path, rawURL string) error {
	if strings.HasSuffix(path, snapshotExt) {
		return SaveSnapshot(ctx, r, rawURL, path)
	}
	return Download(ctx, client, rawURL, path)
}

// SaveSnapshot writes the MHTML snapshot of rawURL to path verbatim.
func SaveSnapshot(ctx context.Context, r Renderer, rawURL, path string) error {
	mhtml, err := r.CaptureSnapshot(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("%w: snapshot of %s: %w", ErrFetchFailed, rawURL, err)
	}
	if err := os.WriteFile(path, []byte(mhtml), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Download streams the body of rawURL into path. The file is created before
// the request is sent and is not removed on failure, so a failed transfer
// can leave an empty or truncated file behind.
func Download(ctx context.Context, client *http.Client, rawURL, path string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrFetchFailed, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q in %s", ErrFetchFailed, u.Scheme, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: GET %s: %w", ErrFetchFailed, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.Close()
		return fmt.Errorf("%w: GET %s returned HTTP %d", ErrFetchFailed, rawURL, resp.StatusCode)
	}

	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrFetchFailed, path, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return nil
}
