// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive downloads the content cited by a bibliography into a
// directory, one file per reference, named by reference number.
//
// URL references are probed for their content type: HTML pages are stored
// as MHTML snapshots of the rendered page, everything else is downloaded
// byte for byte. DOI references are resolved to a PDF through a mirror.
// A reference whose target file already exists is skipped, so a run can be
// repeated until every reference succeeds.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/reference-archive/internal/reference"
	"github.com/pdiddy/reference-archive/pkg/types"
)

// Session is a Renderer that lives for one run.
type Session interface {
	Renderer
	Close() error
}

// Launcher starts the browser session shared by every reference of a run.
type Launcher func(ctx context.Context) (Session, error)

// Status is the result of archiving one reference.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Outcome records what happened to one reference.
type Outcome struct {
	ID     int
	Path   string
	Kind   types.ContentKind
	Status Status
	Err    error
}

// RunResult holds the outcomes of a run in document order.
type RunResult struct {
	Outcomes   []Outcome
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of references processed.
func (r RunResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any reference failed.
func (r RunResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *RunResult) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusDownloaded:
		r.Downloaded++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// Archiver runs the parse, resolve, and fetch pipeline over a document.
type Archiver struct {
	client *http.Client
	launch Launcher
	mirror *Mirror
	out    io.Writer
	logger *zap.Logger
}

// New returns an Archiver that reports one line per reference to out.
// A nil logger disables diagnostics.
func New(client *http.Client, launch Launcher, mirror *Mirror, out io.Writer, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		client: client,
		launch: launch,
		mirror: mirror,
		out:    out,
		logger: logger,
	}
}

// Run archives every reference in text into dir, which must exist. The
// references are processed one at a time in document order; a failing
// reference is reported and the run continues. Run returns an error only
// when the browser session cannot be started or ctx is cancelled.
func (a *Archiver) Run(ctx context.Context, text, dir string) (RunResult, error) {
	log := a.logger.With(zap.String("run", uuid.NewString()), zap.String("dir", dir))

	session, err := a.launch(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("starting browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("closing browser session", zap.Error(err))
		}
	}()

	var result RunResult
	sc := reference.NewScanner(text)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		ref := sc.Reference()
		o := a.ArchiveReference(ctx, session, ref, dir)
		result.add(o)
		a.report(o)
		log.Debug("reference processed",
			zap.Int("id", o.ID),
			zap.String("source", ref.Source.String()),
			zap.String("kind", string(o.Kind)),
			zap.String("path", o.Path),
			zap.String("status", string(o.Status)),
			zap.Error(o.Err))
	}

	log.Info("archive run complete",
		zap.Int("downloaded", result.Downloaded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Int("total", result.Total()))
	return result, nil
}

// ArchiveReference archives a single reference into dir. Errors are
// returned in the Outcome, never as a panic or abort.
func (a *Archiver) ArchiveReference(ctx context.Context, r Renderer, ref types.Reference, dir string) Outcome {
	o := Outcome{ID: ref.ID}

	switch src := ref.Source.(type) {
	case types.URLSource:
		mimeType, err := ProbeContentType(ctx, a.client, src.URL)
		if err != nil {
			return o.failed(err)
		}
		o.Kind = KindOf(mimeType)
		o.Path = TargetPath(ref.ID, mimeType, dir)

		// Skip if already archived by an earlier run.
		if fileExists(o.Path) {
			o.Status = StatusSkipped
			return o
		}
		if err := Fetch(ctx, a.client, r, o.Path, src.URL); err != nil {
			return o.failed(err)
		}

	case types.DOISource:
		o.Kind = types.KindPDFFromDOI
		o.Path = DOITargetPath(ref.ID, dir)
		if err := a.mirror.Resolve(ctx, r, src.DOI, o.Path); err != nil {
			return o.failed(err)
		}

	default:
		return o.failed(fmt.Errorf("unsupported reference source %T", ref.Source))
	}

	o.Status = StatusDownloaded
	return o
}

func (o Outcome) failed(err error) Outcome {
	o.Status = StatusFailed
	o.Err = err
	return o
}

// report prints the console line for an outcome.
func (a *Archiver) report(o Outcome) {
	switch o.Status {
	case StatusDownloaded:
		fmt.Fprintf(a.out, "[%d]: %s downloaded\n", o.ID, o.Path)
	case StatusSkipped:
		fmt.Fprintf(a.out, "[%d]: %s exists, skipping\n", o.ID, o.Path)
	default:
		fmt.Fprintf(a.out, "[%d]: %v\n", o.ID, o.Err)
	}
}
