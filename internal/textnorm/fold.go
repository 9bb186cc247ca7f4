// Package textnorm folds free text and column names for keyword matching.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold case-folds s, strips accents and collapses runs of whitespace.
// "Différence  entre" and "difference entre" fold to the same string.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

// Tokens splits an identifier such as "customerID", "order_id" or "Zip Code"
// into folded words. Acronym runs stay together ("customerID" -> customer, id).
func Tokens(name string) []string {
	var (
		tokens  []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, Fold(string(current)))
			current = current[:0]
		}
	}

	rs := []rune(name)
	for i, r := range rs {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0:
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return tokens
}

// SingularTokens is Tokens with every word singularised ("customer_ids" -> customer, id)
func SingularTokens(name string) []string {
	tokens := Tokens(name)
	for i, t := range tokens {
		tokens[i] = inflection.Singular(t)
	}
	return tokens
}

// ContainsAny reports whether the folded text contains any of the keywords.
// Keywords are expected to be folded already.
func ContainsAny(folded string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return k, true
		}
	}
	return "", false
}
