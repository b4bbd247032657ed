package export

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/medscan-io/medscan/constants"
	"github.com/medscan-io/medscan/internal/anonymize"
	"github.com/medscan-io/medscan/internal/measurement"
)

func sampleRecords() []measurement.Record {
	return []measurement.Record{
		{
			Name: "CRP", Value: 12.5, Unit: "mg/L",
			OptimalRange: measurement.Range{Min: 0, Max: 5},
			Status:       constants.StatusConcerning,
			Description:  "inflammation marker",
		},
		{
			Name: "TSH", Value: 2.1, Unit: "mIU/L",
			OptimalRange: measurement.Range{Min: 0.4, Max: 4.0},
			Status:       constants.StatusOptimal,
		},
	}
}

func TestMeasurementsXLSX(t *testing.T) {
	data, err := NewService(nil).MeasurementsXLSX(sampleRecords(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Measurements")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two records
	assert.Equal(t, "Measurement", rows[0][0])
	assert.Equal(t, "CRP", rows[1][0])
	assert.Equal(t, string(constants.StatusConcerning), rows[1][5])
	assert.Equal(t, "TSH", rows[2][0])

	// No profile sheet without demographics.
	idx, err := f.GetSheetIndex("Profile")
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
}

func TestMeasurementsXLSXWithProfile(t *testing.T) {
	age := 42
	demo := &anonymize.DemographicProfile{
		Age:      &age,
		Sex:      anonymize.SexFemale,
		TestDate: "2025-01-15",
	}
	data, err := NewService(nil).MeasurementsXLSX(sampleRecords(), demo)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Profile")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Sex", rows[0][0])
	assert.Equal(t, "Test Date", rows[1][0])
	assert.Equal(t, "2025-01-15", rows[1][1])
}

func TestTruncateRuneBoundaries(t *testing.T) {
	// Polish descriptions must not lose a split rune at the cut point.
	long := strings.Repeat("ż", 10)
	got := truncate(long, 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ż", 4)+"…", got)

	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}

func TestMeasurementsXLSXEmpty(t *testing.T) {
	data, err := NewService(nil).MeasurementsXLSX(nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
