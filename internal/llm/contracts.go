package llm

import "context"

// RawRange is the untrusted optimal-range shape from model output. Each
// bound may be a JSON number, a locale-formatted string, or absent.
type RawRange struct {
	Min any `json:"min,omitempty"`
	Max any `json:"max,omitempty"`
}

// RawCandidateRecord is the loosely typed, not-yet-validated measurement
// shape recovered from model output. It is discarded once normalized or
// rejected; validated records use measurement.Record.
type RawCandidateRecord struct {
	Name         string    `json:"name"`
	Value        any       `json:"value"`
	Unit         string    `json:"unit"`
	OptimalRange *RawRange `json:"optimalRange,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Envelope is the top-level object the inference service is asked to
// return: a single named array of measurement records.
type Envelope struct {
	Measurements []RawCandidateRecord `json:"measurements"`
}

// ExtractRequest carries one document to the inference service. The
// primary path sends AnonymizedText; when text extraction upstream failed,
// the fallback path attaches the original file bytes with their declared
// MIME type instead.
type ExtractRequest struct {
	AnonymizedText string
	FileData       []byte
	FileMIME       string
}

// Extractor is the inference-service boundary the pipeline depends on.
// Implementations own the network call only; parsing the returned text
// belongs to this package's recovery parser.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (string, error)
}
