// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"sync"
)

const fakePDFContent = "%PDF-1.4 fake"

// fakeRenderer stands in for the browser session. Snapshots and pages are
// keyed by URL.
type fakeRenderer struct {
	mu        sync.Mutex
	snapshots map[string]string
	pages     map[string]string
	err       error
	calls     []string
	closed    bool
	closeErr  error
}

func (f *fakeRenderer) CaptureSnapshot(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "snapshot "+url)
	if f.err != nil {
		return "", f.err
	}
	return f.snapshots[url], nil
}

func (f *fakeRenderer) RenderHTML(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "render "+url)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.closeErr
}

func (f *fakeRenderer) launcher() Launcher {
	return func(context.Context) (Session, error) { return f, nil }
}

func mirrorPage(action string) string {
	return `<html><body><div id="buttons">` +
		`<button onclick="` + action + `">&darr; save</button>` +
		`</div></body></html>`
}
