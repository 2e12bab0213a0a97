// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import "errors"

// Errors reported for a single reference. They are wrapped with context and
// matched with errors.Is; none of them aborts a run.
var (
	// ErrProbeFailed means the HEAD probe returned a non-2xx status or no Content-Type.
	ErrProbeFailed = errors.New("content-type probe failed")

	// ErrFetchFailed means a download or snapshot capture failed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrReferenceNotFound means the mirror page has no usable save control.
	ErrReferenceNotFound = errors.New("reference not found on mirror")

	// ErrMirrorTimeout means the mirror page did not load in time.
	ErrMirrorTimeout = errors.New("mirror timed out")
)
