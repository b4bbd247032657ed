package anonymize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan-io/medscan/constants"
	"github.com/medscan-io/medscan/internal/common"
)

func newTestService() *Service {
	return NewService(common.DefaultLimits(), nil)
}

func TestAnonymizeRejectsEmptyInput(t *testing.T) {
	for name, in := range map[string]string{
		"empty":      "",
		"whitespace": "   \n\t",
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := newTestService().Anonymize(in, nil)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestAnonymizeDocument(t *testing.T) {
	raw := "Pacjent: Jan Kowalski, PESEL 85010112345, wiek: 42 lata, waga 83 kg.\n" +
		"Data badania: 15.01.2025. Kontakt: jan@example.com\n" +
		"CRP 12,5 mg/L (norma 0-5)"

	doc, err := newTestService().Anonymize(raw, &SourceMeta{ContentType: "PDF"})
	require.NoError(t, err)
	require.NotNil(t, doc)

	// Identifiers replaced by placeholders, measurements untouched.
	assert.NotContains(t, doc.RedactedText, "Jan Kowalski")
	assert.NotContains(t, doc.RedactedText, "85010112345")
	assert.NotContains(t, doc.RedactedText, "jan@example.com")
	assert.Contains(t, doc.RedactedText, constants.PlaceholderName)
	assert.Contains(t, doc.RedactedText, constants.PlaceholderID)
	assert.Contains(t, doc.RedactedText, constants.PlaceholderEmail)
	assert.Contains(t, doc.RedactedText, "CRP 12,5 mg/L")

	// Output must survive an independent re-scan.
	assert.NoError(t, ValidateNoLeaks(doc.RedactedText))

	// Demographics extracted from the original text.
	require.NotNil(t, doc.Demographics.Age)
	assert.Equal(t, 42, *doc.Demographics.Age)
	require.NotNil(t, doc.Demographics.WeightKg)
	assert.InDelta(t, 83.0, *doc.Demographics.WeightKg, 1e-9)
	assert.Equal(t, "2025-01-15", doc.Demographics.TestDate)

	// Source metadata filled in.
	assert.Equal(t, "PDF", doc.Meta.ContentType)
	assert.Equal(t, len(raw), doc.Meta.ByteSize)
	assert.False(t, doc.Meta.ProcessedAt.IsZero())
}

func TestAnonymizeNilMeta(t *testing.T) {
	doc, err := newTestService().Anonymize("wyniki w normie, CRP 1,2 mg/L", nil)
	require.NoError(t, err)
	assert.Equal(t, len("wyniki w normie, CRP 1,2 mg/L"), doc.Meta.ByteSize)
	assert.False(t, doc.Meta.ProcessedAt.IsZero())
}
