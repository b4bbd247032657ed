package anonymize

import (
	"regexp"

	"github.com/medscan-io/medscan/constants"
)

// redactionRule pairs a compiled detection pattern with its category and
// replacement token. Rules run in declaration order; the order matters
// because later categories must never re-match text an earlier category
// already replaced, and the all-caps placeholder tokens guarantee that.
type redactionRule struct {
	category    constants.PIICategory
	re          *regexp.Regexp
	placeholder string
}

var (
	// Two capitalized tokens in sequence. Unicode letter classes cover
	// Polish diacritics (Łukasz Żółć) as well as plain ASCII names.
	reFullName = regexp.MustCompile(`\p{Lu}\p{Ll}+[ \t]+\p{Lu}\p{Ll}+`)

	// PESEL: exactly 11 digits.
	reNationalID = regexp.MustCompile(`\b\d{11}\b`)

	// Institutional sample/order identifiers: 2-3 uppercase letters
	// followed by at least 6 digits.
	reInstitutionID = regexp.MustCompile(`\b[A-Z]{2,3}\d{6,}\b`)

	// Address introducer (Polish or English) followed by a capitalized
	// street phrase and an optional building/apartment number.
	reAddress = regexp.MustCompile(`(?:ul\.|Ul\.|UL\.|ulica|Ulica|al\.|Al\.|aleja|Aleja|os\.|Os\.|osiedle|Osiedle|street|Street|avenue|Avenue|ave\.|Ave\.)[ \t]+\p{Lu}[\p{L}]+(?:[ \t]+\p{Lu}[\p{L}]+)*(?:[ \t]+\d+[A-Za-z]?(?:/\d+)?)?`)

	// Phone numbers: optional two-digit country code, then three groups of
	// three digits separated by spaces or hyphens.
	rePhone = regexp.MustCompile(`(?:\+\d{2}[ -]?)?\b\d{3}[ -]\d{3}[ -]\d{3}\b|\b\d{9}\b`)

	// RFC-5322-ish email addresses.
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

	// Known laboratory and clinic name fragments.
	reInstitution = regexp.MustCompile(`(?i)\b(?:diagnostyka|alab|synevo|luxmed|medicover|vitalabo|śląskie laboratoria|centrum medyczne|laboratorium)\b`)
)

var redactionRules = []redactionRule{
	{constants.PIIName, reFullName, constants.PlaceholderName},
	{constants.PIINationalID, reNationalID, constants.PlaceholderID},
	{constants.PIIInstitutionID, reInstitutionID, constants.PlaceholderID},
	{constants.PIIAddress, reAddress, constants.PlaceholderAddress},
	{constants.PIIPhone, rePhone, constants.PlaceholderPhone},
	{constants.PIIEmail, reEmail, constants.PlaceholderEmail},
	{constants.PIIInstitution, reInstitution, constants.PlaceholderInstitution},
}

// Redact replaces every recognized personal-data substring with its
// category placeholder token, folding the rule table over the text.
func Redact(text string) string {
	for _, rule := range redactionRules {
		text = rule.re.ReplaceAllString(text, rule.placeholder)
	}
	return text
}
