package constants

// Plausibility bounds for demographic extraction. Values outside these
// windows are discarded, not clamped. The numbers are deliberate
// configuration constants with no clinical authority behind them; an
// optional limits file may override them at startup.
const (
	AgeMin = 1
	AgeMax = 120

	WeightMinKg = 20.0
	WeightMaxKg = 300.0

	HeightMinCm = 100
	HeightMaxCm = 250

	TestYearMin = 2000
	TestYearMax = 2100
)

// Classification margins, as fractions of the optimal range width.
// A value within range ± OptimalMarginFactor*width is Optimal; within the
// doubled band it is Suboptimal; beyond that, Concerning.
const (
	OptimalMarginFactor    = 0.10
	SuboptimalMarginFactor = 0.20
)

// RangeMaxCeiling caps a parsed optimal-range upper bound. Guards against
// "greater than X" style ranges where the model invents an enormous max.
const RangeMaxCeiling = 1_000_000.0
