package anonymize

import (
	"regexp"
	"strconv"
	"time"

	"github.com/medscan-io/medscan/internal/common"
	"github.com/medscan-io/medscan/internal/numtext"
)

// Sex is the extracted biological sex.
type Sex string

const (
	SexMale    Sex = "Male"
	SexFemale  Sex = "Female"
	SexUnknown Sex = "Unknown"
)

// DemographicProfile holds the demographic fields recovered from raw
// document text. Every field is independently optional; absence is not an
// error.
type DemographicProfile struct {
	Age      *int     `json:"age,omitempty"`
	WeightKg *float64 `json:"weightKg,omitempty"`
	HeightCm *int     `json:"heightCm,omitempty"`
	Sex      Sex      `json:"sex"`
	TestDate string   `json:"testDate,omitempty"` // canonical YYYY-MM-DD
}

// Per-field candidate patterns, tried in order. The first pattern whose
// captured value passes the field's plausibility check wins; later
// patterns for the same field are not tried. Keywords cover Polish and
// English document conventions.
var (
	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwiek\W{0,5}(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\bage\W{0,5}(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,3})[ \t]*(?:lat|lata|latka)\b`),
		regexp.MustCompile(`(?i)\b(\d{1,3})[ \t]*(?:years?[ \t]+old|y\.?o\.?)\b`),
	}

	weightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:waga|masa ciała|weight)\W{0,5}(\d{1,3}(?:[.,]\d+)?)`),
		regexp.MustCompile(`(?i)\b(\d{1,3}(?:[.,]\d+)?)[ \t]*kg\b`),
	}

	heightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:wzrost|height)\W{0,5}(\d{2,3})\b`),
		regexp.MustCompile(`(?i)\b(\d{2,3})[ \t]*cm\b`),
	}

	malePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmężczyzna\b`),
		regexp.MustCompile(`(?i)\bmale\b`),
		regexp.MustCompile(`(?i)\bpłeć\W{0,3}m\b`),
		regexp.MustCompile(`(?i)\bsex\W{0,3}m\b`),
	}

	femalePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bkobieta\b`),
		regexp.MustCompile(`(?i)\bfemale\b`),
		regexp.MustCompile(`(?i)\bpłeć\W{0,3}k\b`),
		regexp.MustCompile(`(?i)\bsex\W{0,3}f\b`),
	}
)

// Date patterns with the year/month/day capture order each one implies.
// Decomposition depends on which pattern matched, not on the separator.
var datePatterns = []struct {
	re      *regexp.Regexp
	y, m, d int // capture group indexes
}{
	{regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`), 3, 2, 1}, // day.month.year
	{regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`), 1, 2, 3},   // year-month-day
	{regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`), 3, 2, 1},   // day/month/year
}

// ExtractDemographics scans raw text for age, weight, height, sex, and the
// test date. A value failing its plausibility check leaves the field
// absent; extraction of the remaining fields continues.
func ExtractDemographics(text string, limits common.Limits) DemographicProfile {
	profile := DemographicProfile{Sex: SexUnknown}

	for _, re := range agePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err != nil || age < limits.AgeMin || age > limits.AgeMax {
			continue
		}
		profile.Age = &age
		break
	}

	for _, re := range weightPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		weight := numtext.ToFloat(m[1])
		if !numtext.Valid(weight) || weight < limits.WeightMinKg || weight > limits.WeightMaxKg {
			continue
		}
		profile.WeightKg = &weight
		break
	}

	for _, re := range heightPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		height, err := strconv.Atoi(m[1])
		if err != nil || height < limits.HeightMinCm || height > limits.HeightMaxCm {
			continue
		}
		profile.HeightCm = &height
		break
	}

	profile.Sex = extractSex(text)
	profile.TestDate = extractTestDate(text, limits)
	return profile
}

// extractSex tests male-indicating patterns before female-indicating ones;
// the first match wins. No match yields Unknown, never a default sex.
func extractSex(text string) Sex {
	for _, re := range malePatterns {
		if re.MatchString(text) {
			return SexMale
		}
	}
	for _, re := range femalePatterns {
		if re.MatchString(text) {
			return SexFemale
		}
	}
	return SexUnknown
}

// extractTestDate returns the first plausible test date in canonical
// YYYY-MM-DD form, or "" if none is found. A candidate is accepted only if
// rebuilding a calendar date from its components reproduces the same
// numbers; that round trip rejects impossible dates like 31.04.
func extractTestDate(text string, limits common.Limits) string {
	for _, pat := range datePatterns {
		for _, m := range pat.re.FindAllStringSubmatch(text, -1) {
			year, _ := strconv.Atoi(m[pat.y])
			month, _ := strconv.Atoi(m[pat.m])
			day, _ := strconv.Atoi(m[pat.d])
			if year < limits.TestYearMin || year > limits.TestYearMax {
				continue
			}
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if t.Year() != year || int(t.Month()) != month || t.Day() != day {
				continue
			}
			return t.Format("2006-01-02")
		}
	}
	return ""
}
