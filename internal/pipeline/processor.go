package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medscan-io/medscan/constants"
	"github.com/medscan-io/medscan/internal/anonymize"
	"github.com/medscan-io/medscan/internal/common"
	"github.com/medscan-io/medscan/internal/llm"
	"github.com/medscan-io/medscan/internal/measurement"
)

// Document is one uploaded source document after upstream text extraction.
// Text is the extracted plain text; when extraction failed upstream, Text
// is empty and FileData/FileMIME carry the original file for the inference
// fallback path.
type Document struct {
	Name        string
	ContentType string
	Text        string
	FileData    []byte
	FileMIME    string
}

// NewDocumentFromFile classifies an input file by extension and builds the
// Document the processor expects: TXT inputs carry their content as Text,
// PDF and image inputs carry raw bytes plus a MIME type for the inference
// fallback path. Unsupported extensions are rejected up front.
func NewDocumentFromFile(path string, data []byte) (Document, error) {
	ext := filepath.Ext(path)
	if _, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]; !ok {
		return Document{}, common.NewInputError(fmt.Sprintf(
			"unsupported input type %q; supported source types: %s",
			ext, strings.Join(constants.ContentTypes, ", ")))
	}

	doc := Document{
		Name:        filepath.Base(path),
		ContentType: constants.ContentTypeForExt(ext),
	}
	if doc.ContentType == "TXT" {
		doc.Text = string(data)
	} else {
		doc.FileData = data
		doc.FileMIME = constants.MIMEForExt(ext)
	}
	return doc, nil
}

// DocumentResult is the per-document outcome. Err is set when that
// document's anonymization or extraction failed; the rest of the set still
// proceeds.
type DocumentResult struct {
	Name         string
	Anonymized   *anonymize.AnonymizedDocument
	Measurements []measurement.Record
	Err          error
}

// Processor coordinates anonymization, inference, recovery, normalization,
// and the final merge. Per-document stages run concurrently; each document
// is fully independent. The merge runs afterward as a single sequential
// reduction because its output order depends on input order.
type Processor struct {
	Logger     *slog.Logger
	Anonymizer *anonymize.Service
	Extractor  llm.Extractor
	Normalizer *measurement.Normalizer

	// MaxConcurrent bounds parallel per-document processing; <=0 means
	// unbounded.
	MaxConcurrent int
}

func NewProcessor(logger *slog.Logger, anon *anonymize.Service, ext llm.Extractor, norm *measurement.Normalizer, maxConcurrent int) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:        logger,
		Anonymizer:    anon,
		Extractor:     ext,
		Normalizer:    norm,
		MaxConcurrent: maxConcurrent,
	}
}

// ExtractMeasurements parses raw inference response text and normalizes
// the recovered candidates. It fails when zero valid records come out —
// either nothing was recoverable or every candidate failed normalization.
func (p *Processor) ExtractMeasurements(responseText string) ([]measurement.Record, error) {
	candidates, err := llm.RecoverEnvelope(responseText)
	if err != nil {
		return nil, err
	}
	records := p.Normalizer.NormalizeAll(candidates)
	if len(records) == 0 {
		return nil, common.NewNoRecordsError("all recovered candidates failed normalization")
	}
	return records, nil
}

// ProcessDocuments runs the full pipeline over a document set and returns
// the merged measurement list plus per-document results in input order.
// Individual document failures are reported in the results, not fatal;
// the call errors only when every document fails.
func (p *Processor) ProcessDocuments(ctx context.Context, docs []Document) ([]measurement.Record, []DocumentResult, error) {
	rid := uuid.New().String()
	start := time.Now()
	p.Logger.Info("pipeline.start", "req_id", rid, "documents", len(docs))

	results := make([]DocumentResult, len(docs))
	var wg sync.WaitGroup
	var sem chan struct{}
	if p.MaxConcurrent > 0 {
		sem = make(chan struct{}, p.MaxConcurrent)
	}
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			results[i] = p.processOne(ctx, docs[i])
		}(i)
	}
	wg.Wait()

	lists := make([][]measurement.Record, 0, len(docs))
	var firstErr error
	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
			if firstErr == nil {
				firstErr = results[i].Err
			}
			p.Logger.Warn("pipeline.document.failed",
				"req_id", rid, "document", results[i].Name, "error", results[i].Err)
			continue
		}
		lists = append(lists, results[i].Measurements)
	}
	if len(docs) > 0 && failed == len(docs) {
		return nil, results, fmt.Errorf("all %d documents failed: %w", len(docs), firstErr)
	}

	merged := measurement.Merge(lists)
	p.Logger.Info("pipeline.merge.ok",
		"req_id", rid,
		"documents", len(docs),
		"failed", failed,
		"measurements", len(merged),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return merged, results, nil
}

func (p *Processor) processOne(ctx context.Context, doc Document) DocumentResult {
	res := DocumentResult{Name: doc.Name}

	req := llm.ExtractRequest{FileData: doc.FileData, FileMIME: doc.FileMIME}
	if doc.Text != "" {
		anon, err := p.Anonymizer.Anonymize(doc.Text, &anonymize.SourceMeta{ContentType: doc.ContentType})
		if err != nil {
			res.Err = common.WrapError(err, "anonymize")
			return res
		}
		res.Anonymized = anon
		req.AnonymizedText = anon.RedactedText
	} else if len(doc.FileData) == 0 {
		res.Err = common.NewInputError("document has neither extracted text nor file data")
		return res
	}

	responseText, err := p.Extractor.Extract(ctx, req)
	if err != nil {
		res.Err = common.WrapError(err, "inference")
		return res
	}

	records, err := p.ExtractMeasurements(responseText)
	if err != nil {
		res.Err = common.WrapError(err, "extract measurements")
		return res
	}
	res.Measurements = records
	return res
}
