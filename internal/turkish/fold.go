// Package turkish provides deterministic Turkish-locale case folding.
//
// Resident merge keys and description matching both depend on uppercasing
// Turkish text. Relying on the host locale (or a general-purpose case
// mapper) makes those keys environment-dependent, so the mapping is pinned
// here as an explicit table.
package turkish

import "strings"

// upperTable maps every lowercase rune that folds differently under
// Turkish rules than under plain Unicode uppercasing, plus the accented
// letters that appear in Turkish names.
var upperTable = map[rune]rune{
	'i': 'İ',
	'ı': 'I',
	'ç': 'Ç',
	'ğ': 'Ğ',
	'ö': 'Ö',
	'ş': 'Ş',
	'ü': 'Ü',
	'â': 'Â',
	'î': 'Î',
	'û': 'Û',
}

// Upper uppercases s under Turkish casing rules: dotted i maps to İ,
// dotless ı to I, remaining ASCII letters a-z to A-Z. Runes with no
// mapping pass through unchanged. The table is consulted before the
// ASCII range so that 'i' follows the locale rule, not the ASCII one.
func Upper(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if u, ok := upperTable[r]; ok {
			b.WriteRune(u)
		} else if r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dotless uppercases s and collapses the dotted capital İ to plain I.
// Bank descriptions and keyboards disagree on the dotting of i in
// names ("yilmaz" vs "YILMAZ"), so substring matching compares in this
// space while display strings keep the proper İ.
func Dotless(s string) string {
	return strings.ReplaceAll(Upper(s), "İ", "I")
}

// Fold collapses s to its canonical key form: dotless uppercase with
// every whitespace rune stripped. This is the form used for resident
// merge keys, so "ahmet yilmaz", "Ahmet Yılmaz" and "AHMET YILMAZ"
// all fold to the same key.
func Fold(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, Dotless(s))
}
