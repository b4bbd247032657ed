package constants

// MeasurementStatus is the three-level classification of a measurement
// against its optimal range.
type MeasurementStatus string

// Stable values (these exact strings appear in exported JSON/XLSX).
const (
	StatusOptimal    MeasurementStatus = "Optimal"
	StatusSuboptimal MeasurementStatus = "Suboptimal"
	StatusConcerning MeasurementStatus = "Concerning"
)

var severityRank = map[MeasurementStatus]int{
	StatusOptimal:    0,
	StatusSuboptimal: 1,
	StatusConcerning: 2,
}

// SeverityRank orders statuses for merge conflict resolution:
// Concerning > Suboptimal > Optimal. Unknown statuses rank lowest.
func (s MeasurementStatus) SeverityRank() int {
	return severityRank[s]
}
