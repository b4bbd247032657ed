package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/medscan-io/medscan/internal/anonymize"
	"github.com/medscan-io/medscan/internal/common"
)

// redact anonymizes a document offline: no network, no inference call.
// Useful for inspecting what the pipeline would send upstream.
func main() {
	var (
		in       = flag.String("in", "", "input text file (default: stdin)")
		limitsFl = flag.String("limits", "", "optional YAML limits file")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	var (
		raw []byte
		err error
	)
	if *in != "" {
		raw, err = os.ReadFile(*in)
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logger.Error("read input", "error", err)
		os.Exit(1)
	}

	limits := common.DefaultLimits()
	if *limitsFl != "" {
		limits, err = common.LoadLimitsFile(*limitsFl)
		if err != nil {
			logger.Error("load limits file", "path", *limitsFl, "error", err)
			os.Exit(2)
		}
	}

	doc, err := anonymize.NewService(limits, logger).Anonymize(string(raw), nil)
	if err != nil {
		// Fail closed: on a leak, nothing of the document is printed.
		if _, werr := fmt.Fprintln(os.Stderr, err); werr != nil {
			fmt.Println(err)
		}
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}
