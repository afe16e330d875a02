package main

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"salesenq/internal/importer"
)

type runSummary struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newRunsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs:list",
		Short: "List the most recent import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.db.ListImportRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := make([]runSummary, 0, len(runs))
			for _, r := range runs {
				out = append(out, runSummary{
					ID:         r.ID,
					Source:     r.Source,
					Total:      r.Total,
					Successful: r.Successful,
					Failed:     r.Failed,
					Skipped:    r.Skipped,
					CreatedAt:  r.CreatedAt,
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max runs, 0 for all")
	return cmd
}

func newRunsExportCmd() *cobra.Command {
	var (
		runID string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "runs:export",
		Short: "Write the outcome of a stored import run as an xlsx report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := a.db.GetImportRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if run == nil {
				return errors.Errorf("no import run %s", runID)
			}
			var outcome importer.Outcome
			if err := json.Unmarshal([]byte(run.Outcome), &outcome); err != nil {
				return errors.Wrapf(err, "decode outcome of run %s", runID)
			}

			if out == "" {
				out = runID + ".xlsx"
			}
			path := outputPath(a.cfg.OutputDir, out)
			if err := importer.ExportOutcomeToXLSX(outcome, path); err != nil {
				return err
			}
			a.logger.WithField("run", runID).Infof("exported report to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Import run id (required)")
	cmd.Flags().StringVar(&out, "out", "", "Output xlsx path, relative to OUTPUT_DIR (default <run>.xlsx)")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
