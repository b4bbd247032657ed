package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan-io/medscan/internal/common"
)

const cleanEnvelope = `{
  "measurements": [
    {"name": "CRP", "value": 12.5, "unit": "mg/L", "optimalRange": {"min": 0, "max": 5}},
    {"name": "Glucose", "value": "98,0", "unit": "mg/dL", "optimalRange": {"min": 70, "max": 99}}
  ]
}`

func TestRecoverEnvelopeStrict(t *testing.T) {
	recs, err := RecoverEnvelope(cleanEnvelope)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "CRP", recs[0].Name)
	assert.Equal(t, "mg/dL", recs[1].Unit)
	require.NotNil(t, recs[1].OptimalRange)
}

func TestRecoverEnvelopeCodeFenced(t *testing.T) {
	for name, in := range map[string]string{
		"tagged":  "```json\n" + cleanEnvelope + "\n```",
		"bare":    "```\n" + cleanEnvelope + "\n```",
		"notrail": "```json\n" + cleanEnvelope,
	} {
		t.Run(name, func(t *testing.T) {
			recs, err := RecoverEnvelope(in)
			require.NoError(t, err)
			assert.Len(t, recs, 2)
		})
	}
}

func TestRecoverEnvelopePreamble(t *testing.T) {
	in := "Here are the extracted results:\n" + cleanEnvelope
	recs, err := RecoverEnvelope(in)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecoverEnvelopeTruncated(t *testing.T) {
	// Cut mid-record: the two complete records survive, the third is lost.
	in := `{"measurements": [
    {"name": "CRP", "value": 12.5, "unit": "mg/L"},
    {"name": "TSH", "value": 2.1, "unit": "mIU/L"},
    {"name": "Glucose", "value": 9`
	recs, err := RecoverEnvelope(in)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "CRP", recs[0].Name)
	assert.Equal(t, "TSH", recs[1].Name)
}

func TestRecoverEnvelopeTruncatedInsideString(t *testing.T) {
	// Truncation inside a string literal containing braces must not
	// confuse the depth scan.
	in := `{"measurements": [
    {"name": "CRP", "value": 1, "unit": "mg/L", "description": "ok {fine}"},
    {"name": "TSH", "value": 2, "unit": "mIU/L", "description": "cut {her`
	recs, err := RecoverEnvelope(in)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "CRP", recs[0].Name)
}

func TestRecoverEnvelopeSkipsInvalidCandidate(t *testing.T) {
	// The middle record is malformed on its own but brace-balanced, so the
	// scan isolates it and standalone validation drops it.
	in := `{"measurements": [
    {"name": "CRP", "value": 1, "unit": "mg/L"},
    {"name": "Broken" "value": 2},
    {"name": "TSH", "value": 3, "unit": "mIU/L"}`
	recs, err := RecoverEnvelope(in)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "CRP", recs[0].Name)
	assert.Equal(t, "TSH", recs[1].Name)
}

func TestRecoverEnvelopeNoRecords(t *testing.T) {
	for name, in := range map[string]string{
		"prose":        "I could not find any measurements in this document.",
		"empty array":  `{"measurements": []}`,
		"cut at open":  `{"measurements": [`,
		"key no array": `{"measurements": `,
	} {
		t.Run(name, func(t *testing.T) {
			recs, err := RecoverEnvelope(in)
			assert.Nil(t, recs)
			assert.ErrorIs(t, err, common.ErrNoRecords)
		})
	}
}

func TestRecoverEnvelopeErrorCarriesTail(t *testing.T) {
	long := strings.Repeat("x", 500) + " END-OF-RESPONSE"
	_, err := RecoverEnvelope(long)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "END-OF-RESPONSE")
	assert.NotContains(t, err.Error(), strings.Repeat("x", 450))
}
