package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type curveInfo struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description" yaml:"description"`
	Range       string `json:"range" yaml:"range"`
}

func newCurvesCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "curves",
		Short: "List the reference curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := a.registry.Keys()
			if err != nil {
				return err
			}

			curves := make([]curveInfo, 0, len(keys))
			for _, key := range keys {
				entry, err := a.registry.Get(key)
				if err != nil {
					return err
				}
				low, high, err := entry.Curve.Range()
				if err != nil {
					return err
				}
				curves = append(curves, curveInfo{
					Key:         string(key),
					Description: entry.Description,
					Range:       fmt.Sprintf("%d-%d nm", low, high),
				})
			}

			return writeOutput(a.stdout, output, curves, func(w io.Writer) error {
				for _, c := range curves {
					if _, err := fmt.Fprintf(w, "%-14s %-12s %s\n", c.Key, c.Range, c.Description); err != nil {
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
