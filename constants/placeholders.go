package constants

// PIICategory labels a class of personal data detected in document text.
type PIICategory string

const (
	PIIName          PIICategory = "name"
	PIINationalID    PIICategory = "national_id"
	PIIInstitutionID PIICategory = "institution_id"
	PIIAddress       PIICategory = "address"
	PIIPhone         PIICategory = "phone"
	PIIEmail         PIICategory = "email"
	PIIInstitution   PIICategory = "institution"
)

// Placeholder tokens substituted for detected personal data. All-caps
// bracketed tokens cannot re-match any detection pattern, so a later
// redaction pass never touches an earlier replacement.
const (
	PlaceholderName        = "[NAME]"
	PlaceholderID          = "[ID]"
	PlaceholderAddress     = "[ADDRESS]"
	PlaceholderPhone       = "[PHONE]"
	PlaceholderEmail       = "[EMAIL]"
	PlaceholderInstitution = "[INSTITUTION]"
)
