package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
)

type analyzeFlags struct {
	name        string
	format      string
	normalize   bool
	weight      float64
	lumens      float64
	skipInvalid bool
	spectrum    bool
	output      string
}

// analyzeReport is the structured output of analyze. The reshaped spectrum
// is only included when asked for.
type analyzeReport struct {
	photometrics.Record `yaml:",inline"`
	Spectrum            []spectrum.Sample `json:"spectrum,omitempty" yaml:"spectrum,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Import one spectral file and report its metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.importOptions(cmd, flags.format, flags.skipInvalid)
			if err != nil {
				return err
			}
			opts.Name = flags.name
			if cmd.Flags().Changed("normalize") {
				opts.Normalize = flags.normalize
			}
			if cmd.Flags().Changed("weight") {
				opts.Weight = flags.weight
			}

			spd, err := spectrum.ImportFile(args[0], opts)
			if err != nil {
				return err
			}

			var lumens *float64
			if cmd.Flags().Changed("lumens") {
				lumens = &flags.lumens
			}
			rec, err := a.calculator.Compute(spd, lumens)
			if err != nil {
				return err
			}

			report := analyzeReport{Record: *rec}
			if flags.spectrum {
				report.Spectrum = spd.Samples()
			}
			return writeOutput(a.stdout, flags.output, report, func(w io.Writer) error {
				if err := writeRecordText(w, rec); err != nil {
					return err
				}
				return writeSamplesText(w, report.Spectrum)
			})
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "name of the distribution (default: file name)")
	cmd.Flags().StringVar(&flags.format, "format", "", "input format: auto, generic, vendor-tab")
	cmd.Flags().BoolVar(&flags.normalize, "normalize", false, "scale the samples to peak 1.0 before weighting")
	cmd.Flags().Float64Var(&flags.weight, "weight", 1.0, "multiply the samples by this weight")
	cmd.Flags().Float64Var(&flags.lumens, "lumens", 0, "photopic lumen output, enables melanopic lumens")
	cmd.Flags().BoolVar(&flags.skipInvalid, "skip-invalid", false, "drop malformed rows instead of failing")
	cmd.Flags().BoolVar(&flags.spectrum, "spectrum", false, "include the reshaped spectrum in the output")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputText, "output format: text, json, yaml")

	return cmd
}

// importOptions starts from the configured import settings and applies the
// format and skip-invalid flags when given. An explicit --skip-invalid=false
// restores strict parsing even when the config enables skipping.
func (a *app) importOptions(cmd *cobra.Command, format string, skipInvalid bool) (spectrum.ImportOptions, error) {
	opts := a.cfg.ImportOptions()
	opts.Logger = a.logger
	opts.Observer = a.collector

	if cmd.Flags().Changed("format") {
		f, err := parser.ParseFormat(format)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	if cmd.Flags().Changed("skip-invalid") {
		opts.Mode = parser.Strict
		if skipInvalid {
			opts.Mode = parser.SkipInvalid
		}
	}
	return opts, nil
}

type textRow struct {
	label string
	value string
}

func writeRecordText(w io.Writer, rec *photometrics.Record) error {
	rows := []textRow{
		{"Melanopic ratio", fmt.Sprintf("%.2f", rec.MelanopicRatio)},
		{"Melanopic response", fmt.Sprintf("%.1f", rec.MelanopicResponse)},
		{"Photopic response", fmt.Sprintf("%.1f", rec.PhotopicResponse)},
		{"Scotopic response", fmt.Sprintf("%.1f", rec.ScotopicResponse)},
		{"M/P ratio", fmt.Sprintf("%.2f", rec.MelanopicPhotopicRatio)},
		{"S/P ratio", fmt.Sprintf("%.2f", rec.ScotopicPhotopicRatio)},
		{"Spectral G-index", fmt.Sprintf("%.4f", rec.SpectralGIndex)},
		{"Blue percentage", fmt.Sprintf("%.2f%%", rec.BluePercentage)},
		{"Peak wavelength", fmt.Sprintf("%d nm", rec.PeakWavelength)},
	}
	if rec.MelanopicLumens != nil {
		rows = append(rows, textRow{"Melanopic lumens", fmt.Sprintf("%.0f", *rec.MelanopicLumens)})
	}

	if _, err := fmt.Fprintln(w, rec.Name); err != nil {
		return err
	}
	return writeRows(w, rows)
}

func writeSamplesText(w io.Writer, samples []spectrum.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "  Spectrum"); err != nil {
		return err
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(w, "    %4d nm  %.6g\n", s.Wavelength, s.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(w io.Writer, rows []textRow) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "  %-20s %s\n", row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}
