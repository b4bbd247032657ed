package measurement

import (
	"log/slog"
	"strings"

	"github.com/medscan-io/medscan/internal/common"
	"github.com/medscan-io/medscan/internal/llm"
	"github.com/medscan-io/medscan/internal/numtext"
)

// Normalizer is the single chokepoint converting untrusted candidate
// records into validated Records. A candidate that fails normalization is
// dropped, never propagated as a placeholder.
type Normalizer struct {
	limits common.Limits
	logger *slog.Logger
}

func NewNormalizer(limits common.Limits, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{limits: limits, logger: logger}
}

// Normalize coerces one candidate. The second return value reports whether
// the candidate was accepted.
func (n *Normalizer) Normalize(c llm.RawCandidateRecord) (Record, bool) {
	name := strings.TrimSpace(c.Name)
	unit := strings.TrimSpace(c.Unit)
	if name == "" || unit == "" {
		n.logger.Warn("measurement.normalize.dropped", "reason", "empty name or unit", "name", c.Name)
		return Record{}, false
	}

	value := numtext.ToFloat(c.Value)
	if !numtext.Valid(value) {
		n.logger.Warn("measurement.normalize.dropped", "reason", "unparsable value", "name", name)
		return Record{}, false
	}

	// Bounds are optional and individually unparsable. A lower bound with
	// no upper bound is a "greater than" interval; its open end becomes the
	// ceiling so the range stays ordered. After clamping, min <= max always
	// holds.
	var r Range
	minOK, maxOK := false, false
	if c.OptimalRange != nil {
		if min := numtext.ToFloat(c.OptimalRange.Min); numtext.Valid(min) {
			r.Min = min
			minOK = true
		}
		if max := numtext.ToFloat(c.OptimalRange.Max); numtext.Valid(max) {
			r.Max = max
			maxOK = true
		}
	}
	if minOK && !maxOK {
		r.Max = n.limits.RangeCeiling
	}
	if r.Max > n.limits.RangeCeiling {
		r.Max = n.limits.RangeCeiling
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}

	return Record{
		Name:         name,
		Value:        value,
		Unit:         unit,
		OptimalRange: r,
		Status:       Classify(value, r, n.limits),
		Description:  strings.TrimSpace(c.Description),
	}, true
}

// NormalizeAll converts a candidate list, silently dropping rejects.
func (n *Normalizer) NormalizeAll(candidates []llm.RawCandidateRecord) []Record {
	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		if rec, ok := n.Normalize(c); ok {
			records = append(records, rec)
		}
	}
	return records
}
