package statement

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"churchbooks/internal/models"
)

// minTokenLength is the shortest name token used for fuzzy matching;
// initials and "of"/"to" style noise never narrow a member search usefully.
const minTokenLength = 3

var (
	zellePrefixPattern  = regexp.MustCompile(`(?i)^\s*zelle payment from\s+`)
	trailingRefPattern  = regexp.MustCompile(`\s+[A-Za-z0-9]*[0-9][A-Za-z0-9]*\s*$`)
	leadingCheckPattern = regexp.MustCompile(`(?i)^\s*CHECK\s+#?\d+`)
	labelPattern        = regexp.MustCompile(`(?i)(ORIG CO NAME|IND NAME):`)
	datePattern         = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`)
	longDigitsPattern   = regexp.MustCompile(`\s*\b\d{6,}\s*$`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// CleanMemo strips bank boilerplate from a description so that the same
// payer produces the same memo across statements. The result keys learned
// matches and feeds fuzzy name matching.
func CleanMemo(description string, txType models.BankTransactionType) string {
	memo := description

	if txType == models.BankTransactionTypeZelle || IsZelleDescription(description) {
		memo = zellePrefixPattern.ReplaceAllString(memo, "")
		memo = trailingRefPattern.ReplaceAllString(memo, "")
		return collapse(memo)
	}

	memo = leadingCheckPattern.ReplaceAllString(memo, "")
	memo = labelPattern.ReplaceAllString(memo, " ")
	memo = datePattern.ReplaceAllString(memo, " ")
	for {
		stripped := longDigitsPattern.ReplaceAllString(memo, "")
		if stripped == memo {
			break
		}
		memo = stripped
	}
	return collapse(memo)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// NameTokens lowercases s, drops every non-letter and returns the distinct
// words of at least three letters, in order of appearance.
func NameTokens(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
