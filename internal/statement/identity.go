package statement

import (
	"regexp"
	"strings"

	"churchbooks/internal/models"
)

var (
	// "Zelle payment from ALMAZ G TESFAY 27250625041". The trailing
	// confirmation id must contain a digit so a surname is never taken as an id.
	zellePattern = regexp.MustCompile(`(?i)^\s*zelle payment from\s+(.+?)\s+([A-Za-z0-9]*[0-9][A-Za-z0-9]*)\s*$`)

	// Some exports drop the confirmation id entirely.
	zelleNameOnlyPattern = regexp.MustCompile(`(?i)^\s*zelle payment from\s+(.+?)\s*$`)

	// "... IND ID:1234 IND NAME:BERHE,SELAMAWIT TRN: 0052912345TC". The name
	// runs until the next "KEY:" field, a token containing digits, or the end
	// of the description.
	achNamePattern = regexp.MustCompile(`(?i)IND NAME:\s*(.+?)(?:\s+[A-Z#][A-Z0-9#]*:|\s+\S*\d\S*(?:\s|$)|\s*$)`)

	checkPattern = regexp.MustCompile(`(?i)^\s*CHECK\s+#?(\d+)`)

	commaPattern = regexp.MustCompile(`\s*,\s*`)
)

// Identity holds the payer signals found in a bank description.
type Identity struct {
	PayerName     string
	ExternalRefID string
	CheckNumber   string
	Type          models.BankTransactionType
}

// ExtractIdentity applies the description rules in priority order: Zelle
// sender, ACH remitter, then a leading check number. The first rule that
// matches decides the result. Type is UNKNOWN when nothing matched.
func ExtractIdentity(description string) Identity {
	if m := zellePattern.FindStringSubmatch(description); m != nil {
		return Identity{
			PayerName:     strings.TrimSpace(m[1]),
			ExternalRefID: m[2],
			Type:          models.BankTransactionTypeZelle,
		}
	}

	if m := zelleNameOnlyPattern.FindStringSubmatch(description); m != nil {
		return Identity{PayerName: strings.TrimSpace(m[1]), Type: models.BankTransactionTypeZelle}
	}

	if m := achNamePattern.FindStringSubmatch(description); m != nil {
		name := commaPattern.ReplaceAllString(strings.TrimSpace(m[1]), ", ")
		name = strings.TrimSuffix(name, ", ")
		if name != "" {
			return Identity{PayerName: name, Type: models.BankTransactionTypeACH}
		}
	}

	if m := checkPattern.FindStringSubmatch(description); m != nil {
		return Identity{CheckNumber: m[1], Type: models.BankTransactionTypeCheck}
	}

	return Identity{Type: models.BankTransactionTypeUnknown}
}

// IsZelleDescription reports whether the description uses the Zelle wording.
func IsZelleDescription(description string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(description)), "zelle payment from")
}
