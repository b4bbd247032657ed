package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/medscan-io/medscan/internal/anonymize"
	"github.com/medscan-io/medscan/internal/common"
	"github.com/medscan-io/medscan/internal/export"
	"github.com/medscan-io/medscan/internal/llm/openai"
	"github.com/medscan-io/medscan/internal/measurement"
	"github.com/medscan-io/medscan/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		out      = flag.String("out", "", "output XLSX file path (default: measurements.xlsx next to first input)")
		asJSON   = flag.Bool("json", false, "print merged measurements as JSON to stdout instead of writing XLSX")
		limitsFl = flag.String("limits", "", "optional YAML limits file overriding plausibility bounds and margins")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	files := flag.Args()
	if len(files) == 0 {
		printError("usage: medscan [flags] <document-file>...\n")
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if *limitsFl != "" {
		limits, err := common.LoadLimitsFile(*limitsFl)
		if err != nil {
			logger.Error("load limits file", "path", *limitsFl, "error", err)
			os.Exit(2)
		}
		cfg.Limits = limits
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	processor := pipeline.NewProcessor(
		logger,
		anonymize.NewService(cfg.Limits, logger),
		client,
		measurement.NewNormalizer(cfg.Limits, logger),
		cfg.Pipeline.MaxConcurrent,
	)

	docs := make([]pipeline.Document, 0, len(files))
	for _, path := range files {
		b, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read input", "path", path, "error", err)
			os.Exit(1)
		}
		doc, err := pipeline.NewDocumentFromFile(path, b)
		if err != nil {
			logger.Error("classify input", "path", path, "error", err)
			os.Exit(2)
		}
		docs = append(docs, doc)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout*2)
	defer cancel()

	merged, results, err := processor.ProcessDocuments(ctx, docs)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(merged); err != nil {
			logger.Error("encode output", "error", err)
			os.Exit(1)
		}
		return
	}

	if *out == "" {
		*out = filepath.Join(filepath.Dir(files[0]), "measurements.xlsx")
	}
	var demo *anonymize.DemographicProfile
	for i := range results {
		if results[i].Err == nil && results[i].Anonymized != nil {
			demo = &results[i].Anonymized.Demographics
			break
		}
	}
	xlsx, err := export.NewService(logger).MeasurementsXLSX(merged, demo)
	if err != nil {
		logger.Error("export", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("write output", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("done", "out", *out, "measurements", len(merged))
}
