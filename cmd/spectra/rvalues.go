package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/spectra/spectrum/parser"
)

func newRValuesCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "rvalues FILE",
		Short: "Print the color rendering R-values of a vendor photometer dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			values, err := parser.ParseRValues(f)
			if err != nil {
				return err
			}

			return writeOutput(a.stdout, output, values, func(w io.Writer) error {
				for _, v := range values {
					if _, err := fmt.Fprintf(w, "%-6s %g\n", v.Name, v.Value); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml")
	return cmd
}
