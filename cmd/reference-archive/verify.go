// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-archive/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify DIR",
	Short: "Find damaged PDFs in an archive directory",
	Long: `Verify validates every PDF in DIR. A download that was interrupted leaves
a truncated file that later runs skip as already archived; delete the files
listed here and run the archive again to fetch them.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int("workers", 4, "number of PDFs validated concurrently")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	workers, _ := cmd.Flags().GetInt("workers")

	report, err := verify.Verify(cmd.Context(), args[0], workers)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, f := range report.Invalid {
		fmt.Fprintf(w, "invalid: %s (%v)\n", f.Path, f.Err)
	}
	fmt.Fprintf(w, "%d checked, %d invalid\n", report.Checked, len(report.Invalid))
	if !report.OK() {
		return fmt.Errorf("%d PDF(s) failed validation", len(report.Invalid))
	}
	return nil
}
