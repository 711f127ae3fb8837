// Package extract pulls structured signals (counts, amounts, department
// codes) out of the free-text fields carried by criteria and companies.
// Every lookup is best effort: a miss is reported through the boolean return,
// never through an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	monetaryPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*([km])?\s*€?`)
	deptToken       = regexp.MustCompile(`^\s*(\d{2,3})\s*-\s*(.+)$`)
	deptCodes       = regexp.MustCompile(`\b\d{2,3}\b`)
)

// MinimumCount finds a "minimum N <unit>" requirement in the text. The units
// argument is a regexp alternation, e.g. `projets?` or `salariés|employés`.
func MinimumCount(text, units string) (int, bool) {
	return firstCount(text, `minimum\s+(\d+)\s+(?:`+units+`)`)
}

// Count finds a bare "N <unit>" occurrence anywhere in the text, e.g.
// "5 projets similaires" on a company's experience field.
func Count(text, units string) (int, bool) {
	return firstCount(text, `(\d+)\s+(?:`+units+`)`)
}

func firstCount(text, pattern string) (int, bool) {
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return 0, false
	}

	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	return n, true
}

// MonetaryAmount parses the first number in the text together with an
// optional k/m multiplier suffix and currency symbol, returning the amount in
// base currency units. "12M€" yields 12000000, "500k" yields 500000.
func MonetaryAmount(text string) (float64, bool) {
	match := monetaryPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	raw := strings.ReplaceAll(match[1], ",", ".")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(match[2]) {
	case "k":
		amount *= 1_000
	case "m":
		amount *= 1_000_000
	}

	return amount, true
}

// DepartmentToken splits a "NN - Name" department entry into its 2-3 digit
// code and a lowercase name fragment suitable for substring matching. Entries
// without a code part yield an empty code and the whole lowercased entry as
// the name.
func DepartmentToken(raw string) (code, name string) {
	if match := deptToken.FindStringSubmatch(raw); match != nil {
		return match[1], strings.ToLower(strings.TrimSpace(match[2]))
	}

	return "", strings.ToLower(strings.TrimSpace(raw))
}

// DepartmentCodes returns every standalone 2-3 digit token found in the text,
// treated downstream as candidate department codes.
func DepartmentCodes(text string) []string {
	return deptCodes.FindAllString(text, -1)
}

// Ratio converts an actual/required pair into a 0-100 score, capping at 100
// once the requirement is met.
func Ratio(actual, required int) int {
	if required <= 0 {
		return 0
	}
	if actual >= required {
		return 100
	}

	score := int(float64(actual)/float64(required)*100 + 0.5)
	if score > 100 {
		score = 100
	}

	return score
}

// Alternation joins plain unit words into a regexp alternation, quoting any
// metacharacters they may carry.
func Alternation(units ...string) string {
	quoted := make([]string, 0, len(units))
	for _, unit := range units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(unit))
	}

	return strings.Join(quoted, "|")
}
