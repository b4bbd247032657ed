package anonymize

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medscan-io/medscan/internal/common"
)

// SourceMeta describes the document a text came from.
type SourceMeta struct {
	ContentType string    `json:"contentType"`
	ByteSize    int       `json:"byteSize"`
	ProcessedAt time.Time `json:"processedAt"`
}

// AnonymizedDocument is the output of a successful anonymization call.
// RedactedText contains zero matches of any identifier-detection pattern;
// the leak validator enforces that before the value is allowed out.
type AnonymizedDocument struct {
	RedactedText string             `json:"redactedText"`
	Demographics DemographicProfile `json:"demographics"`
	Meta         SourceMeta         `json:"sourceMeta"`
}

// Service anonymizes raw document text and extracts demographics.
type Service struct {
	limits common.Limits
	logger *slog.Logger
}

func NewService(limits common.Limits, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{limits: limits, logger: logger}
}

// Anonymize redacts personal identifiers from rawText, verifies that none
// survived, and extracts demographic fields from the original text.
// It fails on empty input, and fails closed (returning only the error,
// never the partially redacted text) when the leak validator finds a
// residual identifier.
func (s *Service) Anonymize(rawText string, meta *SourceMeta) (*AnonymizedDocument, error) {
	rid := uuid.New().String()
	start := time.Now()

	if strings.TrimSpace(rawText) == "" {
		return nil, common.NewInputError("document text must be a non-empty string")
	}

	s.logger.Info("anonymize.start", "req_id", rid, "text_len", len(rawText))

	redacted := Redact(rawText)
	if err := ValidateNoLeaks(redacted); err != nil {
		s.logger.Error("anonymize.leak_detected",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	// Demographics come from the original text: redaction may have eaten
	// tokens adjacent to the fields we want, and the profile itself holds
	// no direct identifiers.
	demographics := ExtractDemographics(rawText, s.limits)

	out := &AnonymizedDocument{
		RedactedText: redacted,
		Demographics: demographics,
	}
	if meta != nil {
		out.Meta = *meta
	}
	out.Meta.ByteSize = len(rawText)
	out.Meta.ProcessedAt = time.Now().UTC()

	s.logger.Info("anonymize.ok",
		"req_id", rid,
		"redacted_len", len(redacted),
		"has_age", demographics.Age != nil,
		"has_test_date", demographics.TestDate != "",
		"sex", string(demographics.Sex),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
