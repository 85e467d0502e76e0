package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spboyer/loadcsv/internal/dataset"
	"github.com/spboyer/loadcsv/internal/fsio"
	"github.com/spboyer/loadcsv/internal/pipeline"
	"github.com/spboyer/loadcsv/internal/projectconfig"
	"github.com/spf13/cobra"
)

// convertFlags holds the flags shared by convert and validate.
type convertFlags struct {
	source     string
	output     string
	mode       string
	summaryKey string
	format     string
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert load test reports to CSV",
		Long: `Convert every <branch>/<test>.json report under the source directory into
<output>/<branch>/<test>.csv.

Each CSV has the header id,min,max,count,mean,p50,median,p75,p90,p95,p99,p999
and one row per interval record; the first record is skipped. Reports may be
gzip (.json.gz) or zstd (.json.zst) compressed.

Defaults come from .loadcsv.yaml when present; flags override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, flags, false)
		},
	}

	addSourceFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default from .loadcsv.yaml or "+projectconfig.DefaultOutputDir+")")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Existing CSV handling: truncate or append")

	return cmd
}

func addSourceFlags(cmd *cobra.Command, flags *convertFlags) {
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Source directory of <branch>/<test>.json reports (default from .loadcsv.yaml or "+projectconfig.DefaultSourceDir+")")
	cmd.Flags().StringVar(&flags.summaryKey, "summary-key", "", "Report summary to extract (default "+projectconfig.DefaultSummaryKey+")")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "table", "Summary format: table or json")
}

func runPipeline(cmd *cobra.Command, flags *convertFlags, dryRun bool) error {
	if flags.format != "table" && flags.format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", flags.format)
	}

	opts, err := resolveOptions(flags, dryRun)
	if err != nil {
		return err
	}

	conv, err := pipeline.New(fsio.OS{}, opts, slog.Default())
	if err != nil {
		return err
	}

	summary, err := conv.Run(cmd.Context())
	if err != nil {
		return err
	}

	if flags.format == "json" {
		return printSummaryJSON(cmd.OutOrStdout(), summary)
	}
	printSummaryTable(cmd.OutOrStdout(), summary)
	return nil
}

// resolveOptions layers flags over .loadcsv.yaml over the built-in defaults.
func resolveOptions(flags *convertFlags, dryRun bool) (pipeline.Options, error) {
	wd, err := os.Getwd()
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return pipeline.Options{}, err
	}
	if cfg.File != "" {
		slog.Debug("Loaded project config", "file", cfg.File)
	}

	mode, err := dataset.ParseMode(firstNonEmpty(flags.mode, cfg.Output.Mode))
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		SourceRoot: firstNonEmpty(flags.source, cfg.Paths.Source),
		OutputRoot: firstNonEmpty(flags.output, cfg.Paths.Output),
		Mode:       mode,
		SummaryKey: firstNonEmpty(flags.summaryKey, cfg.Extract.SummaryKey),
		DryRun:     dryRun,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
