package main

import (
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check load test reports without writing CSV files",
		Long: `Discover, parse and schema-check every report under the source directory.

Nothing is written. The exit code is 1 when a report is malformed and 2 when
the source tree cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, flags, true)
		},
	}

	addSourceFlags(cmd, flags)

	return cmd
}
