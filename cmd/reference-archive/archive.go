// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-archive/internal/archive"
	"github.com/pdiddy/reference-archive/internal/browser"
	"github.com/pdiddy/reference-archive/internal/httputil"
)

func runArchive(cmd *cobra.Command, args []string) error {
	// Argument errors print usage; failures from here on do not.
	cmd.SilenceUsage = true
	inputFile, targetDir := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", targetDir, err)
	}

	client, err := httputil.NewClient(cfg.HTTP)
	if err != nil {
		return err
	}

	launch := func(ctx context.Context) (archive.Session, error) {
		s, err := browser.Launch(ctx, cfg.Browser, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := archive.New(client, launch, archive.NewMirror(cfg.Mirror, client), cmd.OutOrStdout(), logger)
	// Per-reference failures are already reported; only setup errors fail the run.
	_, err = a.Run(ctx, string(input), targetDir)
	return err
}
