package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spboyer/loadcsv/internal/utils"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadcsv",
		Short: "loadcsv - convert load test reports to CSV",
		Long: `loadcsv converts artillery JSON reports into CSV tables of latency metrics.

Reports are read from <source>/<branch>/<test>.json and written to
<output>/<branch>/<test>.csv, one row per interval record.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	logFormat := cmd.PersistentFlags().String("log-format", utils.LogFormatAuto, "Log format: auto, text or json")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if *debugLogging {
			level = slog.LevelDebug
		}
		logger, err := utils.NewLogger(cmd.ErrOrStderr(), *logFormat, level)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newConvertCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}
