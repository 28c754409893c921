package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/spectrum"
)

type batchReport struct {
	RunID    string                 `json:"run_id" yaml:"run_id"`
	Records  []*photometrics.Record `json:"records" yaml:"records"`
	Summary  photometrics.Summary   `json:"summary" yaml:"summary"`
	Failures []string               `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Import every spectral file in a directory and report their metrics",
		Long: "Batch imports every non-hidden file at the top level of DIR. Files are " +
			"always normalized and malformed rows are skipped. Files or metrics that " +
			"fail are listed without stopping the batch.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.importOptions(cmd, format, false)
			if err != nil {
				return err
			}

			report := &batchReport{RunID: a.runID}

			spds, importErr := spectrum.ImportBatch(args[0], opts)
			for _, err := range splitErrors(importErr) {
				report.Failures = append(report.Failures, describeError(err))
			}
			if len(spds) == 0 && importErr != nil {
				return importErr
			}

			names := make([]string, 0, len(spds))
			for name := range spds {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				rec, err := a.calculator.Compute(spds[name], nil)
				if err != nil {
					a.logger.Warn("Skipping distribution", logging.Fields{"spd": name, "error": err.Error()})
					report.Failures = append(report.Failures, fmt.Sprintf("%s: %s", name, describeError(err)))
					continue
				}
				report.Records = append(report.Records, rec)
			}
			report.Summary = photometrics.Summarize(report.Records)

			return writeOutput(a.stdout, output, report, func(w io.Writer) error {
				return writeBatchText(w, report)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format: auto, generic, vendor-tab")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml")

	return cmd
}

// splitErrors undoes errors.Join
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func writeBatchText(w io.Writer, report *batchReport) error {
	for _, rec := range report.Records {
		if err := writeRecordText(w, rec); err != nil {
			return err
		}
	}

	s := report.Summary
	if _, err := fmt.Fprintf(w, "Summary (%d distributions)\n", s.Count); err != nil {
		return err
	}
	rows := []textRow{
		{"Melanopic ratio", fmt.Sprintf("%.2f ± %.2f", s.MelanopicRatio.Mean, s.MelanopicRatio.StdDev)},
		{"M/P ratio", fmt.Sprintf("%.2f ± %.2f", s.MelanopicPhotopicRatio.Mean, s.MelanopicPhotopicRatio.StdDev)},
		{"S/P ratio", fmt.Sprintf("%.2f ± %.2f", s.ScotopicPhotopicRatio.Mean, s.ScotopicPhotopicRatio.StdDev)},
		{"Spectral G-index", fmt.Sprintf("%.2f ± %.2f", s.SpectralGIndex.Mean, s.SpectralGIndex.StdDev)},
	}
	if err := writeRows(w, rows); err != nil {
		return err
	}

	for _, failure := range report.Failures {
		if _, err := fmt.Fprintf(w, "failed: %s\n", failure); err != nil {
			return err
		}
	}
	return nil
}
