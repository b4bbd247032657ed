package anonymize

import (
	"regexp"

	"github.com/medscan-io/medscan/constants"
	"github.com/medscan-io/medscan/internal/common"
)

// leakChecks re-applies the name, ID, and email detection patterns to
// redacted output. This is a second, independent gate: if any pattern
// still matches, the whole anonymization call fails closed and the
// partially redacted text is withheld from the caller.
var leakChecks = []struct {
	category constants.PIICategory
	re       *regexp.Regexp
}{
	{constants.PIIName, reFullName},
	{constants.PIINationalID, reNationalID},
	{constants.PIIInstitutionID, reInstitutionID},
	{constants.PIIEmail, reEmail},
}

// ValidateNoLeaks scans redacted text for residual identifiers and returns
// a privacy validation error naming the first leaking category found.
func ValidateNoLeaks(redacted string) error {
	for _, check := range leakChecks {
		if check.re.MatchString(redacted) {
			return common.NewPrivacyLeakError(check.category)
		}
	}
	return nil
}
