// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks the PDFs in an archive directory for structural
// damage. A download that fails mid-transfer leaves a truncated file, which
// later runs treat as complete; Verify lists those files so they can be
// deleted and fetched again.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

func init() {
	// Use built-in defaults rather than creating a pdfcpu config dir under $HOME.
	api.DisableConfigDir()
}

// Finding is a PDF that failed validation.
type Finding struct {
	Path string
	Err  error
}

// Report summarizes a verification pass.
type Report struct {
	// Checked is the number of PDFs validated.
	Checked int

	// Invalid lists the PDFs that failed, sorted by path.
	Invalid []Finding
}

// OK reports whether every checked PDF is valid.
func (r Report) OK() bool {
	return len(r.Invalid) == 0
}

// Verify validates every .pdf file directly inside dir, using up to workers
// concurrent validations (default 4). It returns an error only when dir
// cannot be read or ctx is cancelled.
func Verify(ctx context.Context, dir string, workers int) (Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, fmt.Errorf("reading archive directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ValidatePDF(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Checked: len(paths)}
	for i, err := range results {
		if err != nil {
			report.Invalid = append(report.Invalid, Finding{Path: paths[i], Err: err})
		}
	}
	return report, nil
}

// ValidatePDF checks a single PDF in relaxed mode, which accepts the minor
// format deviations common in publisher PDFs but rejects truncated files.
func ValidatePDF(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
	}
	return nil
}
