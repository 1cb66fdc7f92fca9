// Command evaluate trains every classifier variant on a credit dataset and
// prints the evaluation report. The report can also be written as CSV or
// Excel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"

	"creditrisk/internal/config"
	"creditrisk/internal/dataset"
	"creditrisk/internal/evaluation"
	"creditrisk/internal/exporter"
	"creditrisk/internal/infrastructure"
	"creditrisk/internal/validation"
)

type options struct {
	dataPath    string
	seed        int64
	testRatio   float64
	parallelism int
	xlsxPath    string
	csvPath     string
	confusion   bool
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Error("Evaluation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	opts := options{}
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.dataPath, "data", config.DefaultDataPath, "credit dataset (.csv or .xlsx)")
	fs.Int64Var(&opts.seed, "seed", config.DefaultSeed, "random seed for the train/test split and the models")
	fs.Float64Var(&opts.testRatio, "test-ratio", config.DefaultTestRatio, "fraction of rows held out for scoring")
	fs.IntVar(&opts.parallelism, "parallel", 1, "number of models fitted concurrently")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the report workbook to this path")
	fs.StringVar(&opts.csvPath, "csv", "", "write the metrics table as CSV to this path")
	fs.BoolVar(&opts.confusion, "confusion", false, "also print the confusion matrices")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.testRatio <= 0 || opts.testRatio >= 1 {
		return opts, fmt.Errorf("test-ratio must be in (0, 1), got %v", opts.testRatio)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := infrastructure.NewJSONLogger(stderr, infrastructure.ParseLogLevel(opts.logLevel))
	slog.SetDefault(logger)

	files := validation.NewFileValidator(logger)
	if err := files.ValidateDatasetFile(opts.dataPath); err != nil {
		return err
	}
	if opts.csvPath != "" {
		if err := files.ValidateOutputFile(opts.csvPath, ".csv"); err != nil {
			return err
		}
	}
	if opts.xlsxPath != "" {
		if err := files.ValidateOutputFile(opts.xlsxPath, ".xlsx"); err != nil {
			return err
		}
	}

	records, err := dataset.Load(opts.dataPath)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", opts.dataPath),
		slog.Int("rows", records.Len()))

	cfg := evaluation.DefaultConfig()
	cfg.Seed = opts.seed
	cfg.TestRatio = opts.testRatio
	cfg.Parallelism = opts.parallelism

	pipeline, err := evaluation.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}
	bundle, err := pipeline.Run(ctx, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Dataset: %s (%d rows, %d held out)\n\n",
		opts.dataPath, records.Len(), len(bundle.Split.Test))
	if err := printReport(stdout, bundle); err != nil {
		return err
	}
	if opts.confusion {
		fmt.Fprintln(stdout)
		if err := printConfusion(stdout, bundle); err != nil {
			return err
		}
	}
	for _, r := range bundle.Results {
		if r.MetricsErr != nil {
			fmt.Fprintf(stdout, "warning: %v\n", r.MetricsErr)
		}
	}

	if opts.csvPath != "" {
		if err := exporter.SaveReportCSV(opts.csvPath, bundle); err != nil {
			return err
		}
		logger.InfoContext(ctx, "CSV report written", slog.String("path", opts.csvPath))
	}
	if opts.xlsxPath != "" {
		if err := exporter.SaveXLSX(opts.xlsxPath, bundle); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Excel report written", slog.String("path", opts.xlsxPath))
	}
	return nil
}

func printReport(w io.Writer, b *evaluation.Bundle) error {
	rows, err := exporter.ReportTable(b)
	if err != nil {
		return err
	}
	renderTable(w, exporter.ReportHeaders, rows)
	return nil
}

func printConfusion(w io.Writer, b *evaluation.Bundle) error {
	rows, err := exporter.ConfusionTable(b)
	if err != nil {
		return err
	}
	renderTable(w, exporter.ConfusionHeaders, rows)
	return nil
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.Render()
}
