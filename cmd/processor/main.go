// Command processor runs the attendance pipeline offline: it reads a raw
// multi-sheet workbook, cleans it and writes the summary workbook (and
// optionally per-summary CSV files) without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shiftpulse/internal/dataprocessing"
	"shiftpulse/internal/exporter"
	"shiftpulse/internal/validation"
	"shiftpulse/pkg/contracts/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "processor",
		Short:         "Offline attendance workbook processing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newProcessCmd())
	return root
}

type processOptions struct {
	input   string
	output  string
	csvDir  string
	topN    int
	verbose bool
}

func newProcessCmd() *cobra.Command {
	opts := processOptions{topN: exporter.DefaultTopEmployees}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Clean a raw attendance workbook and write the summary workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "raw attendance workbook (.xlsx)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "summary workbook to write (.xlsx)")
	cmd.Flags().StringVar(&opts.csvDir, "csv-dir", "", "also write per-summary CSV files into this directory")
	cmd.Flags().IntVar(&opts.topN, "top", opts.topN, "rows in the Top Employees sheet")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runProcess(ctx context.Context, opts processOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbookPath(opts.input); err != nil {
		return err
	}
	if opts.csvDir != "" {
		if err := validator.EnsureOutputDirectory(opts.csvDir); err != nil {
			return err
		}
	}

	start := time.Now()

	in, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("open input workbook: %w", err)
	}
	defer in.Close()

	parsed, err := dataprocessing.NewParser(logger).ParseWorkbook(ctx, in)
	if err != nil {
		return fmt.Errorf("parse workbook: %w", err)
	}

	rs, err := dataprocessing.NewCleaner(logger).Clean(ctx, parsed)
	if err != nil {
		return fmt.Errorf("clean workbook: %w", err)
	}

	if err := writeSummaryWorkbook(ctx, logger, opts, rs); err != nil {
		return err
	}

	if opts.csvDir != "" {
		if err := exporter.NewCSVWriter(logger).WriteSummaries(ctx, opts.csvDir, rs); err != nil {
			return fmt.Errorf("write csv summaries: %w", err)
		}
	}

	logger.Info("processing complete",
		slog.String("output", opts.output),
		slog.Int("accepted", rs.Counters.AcceptedRecords),
		slog.Int("rejected", rs.Counters.RejectedRecords),
		slog.Int("anomalies", rs.Counters.Anomalies),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func writeSummaryWorkbook(ctx context.Context, logger *slog.Logger, opts processOptions, rs *domain.RecordSet) error {
	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output workbook: %w", err)
	}

	builder := exporter.NewWorkbookBuilder(logger).WithTopN(opts.topN)
	if err := builder.Write(ctx, out, rs); err != nil {
		out.Close()
		return fmt.Errorf("write summary workbook: %w", err)
	}
	return out.Close()
}
