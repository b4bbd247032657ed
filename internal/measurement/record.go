package measurement

import (
	"math"

	"github.com/medscan-io/medscan/constants"
	"github.com/medscan-io/medscan/internal/common"
)

// Range is the clinically expected [Min, Max] interval for a measurement,
// used only for status classification, not diagnosis.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the center of the range.
func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Record is a validated, immutable measurement. Records are created only
// by the normalizer; merging produces new records, never edits in place.
type Record struct {
	Name         string                      `json:"name"`
	Value        float64                     `json:"value"`
	Unit         string                      `json:"unit"`
	OptimalRange Range                       `json:"optimalRange"`
	Status       constants.MeasurementStatus `json:"status"`
	Description  string                      `json:"description,omitempty"`
}

// Classify places value into the three-level status using the margin rule:
// within range ± optimal margin is Optimal, within the doubled margin is
// Suboptimal, further out is Concerning. The rule applies identically to
// every data source. When Max == Min the margins collapse to zero and any
// deviation is Concerning; that boundary is intentional and covered by
// tests.
func Classify(value float64, r Range, limits common.Limits) constants.MeasurementStatus {
	width := r.Max - r.Min
	optMargin := width * limits.OptimalMargin
	subMargin := width * limits.SuboptimalMargin

	if value >= r.Min-optMargin && value <= r.Max+optMargin {
		return constants.StatusOptimal
	}
	if value >= r.Min-subMargin && value <= r.Max+subMargin {
		return constants.StatusSuboptimal
	}
	return constants.StatusConcerning
}

// midpointDistance is the absolute distance between a record's value and
// the midpoint of its own optimal range; the merge tie-break prefers the
// larger distance.
func midpointDistance(r Record) float64 {
	return math.Abs(r.Value - r.OptimalRange.Midpoint())
}
