// Package match resolves candidate transactions to residents. The
// engine is a fixed chain of strategies evaluated first-match-wins per
// candidate; each strategy is a pure decision function, so an
// identical (description, directory) pair always yields the identical
// outcome. Ambiguity never auto-resolves - an uncertain candidate is
// left unmatched for manual review.
package match

import (
	"sort"
	"strings"

	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/turkish"
)

// minNameLen is the shortest folded name fragment any strategy will
// consider; anything shorter behaves like a wildcard in substring
// matching.
const minNameLen = 3

// Decision is a resolved match: the resident and the strategy
// diagnostic shown during review.
type Decision struct {
	ResidentID string
	Reason     string
}

// Alias maps a known historical misspelling, matched as a substring of
// the description, to a resident's canonical full name.
type Alias struct {
	Key        string
	TargetName string
}

// DefaultAliases is the maintained override list for payers whose bank
// descriptions never carry their directory name.
var DefaultAliases = []Alias{
	{Key: "YAVUZ DİNÇEL", TargetName: "ATİLLA DİNÇEL"},
	{Key: "ESAT KAAN AYDINALP", TargetName: "ABDULKADİR AYDINALP"},
	{Key: "ESAT KAAN", TargetName: "ABDULKADİR AYDINALP"},
}

// indexedName is one searchable name with its owning resident. The
// key is the dotless comparison form; name keeps the display casing.
type indexedName struct {
	name       string
	key        string
	residentID string
}

// Index precomputes the directory views the strategies need. Building
// it once per batch keeps AutoMatch linear in candidates.
type Index struct {
	doorByDigits map[string]string
	fullNames    []indexedName
	tokenSets    []tokenEntry
	surnames     map[string][]string
	surnameKeys  []string
	aliases      []Alias
	residents    []model.Resident
}

// tokenEntry carries a name's significant tokens in dotless form plus
// the display name for the match reason.
type tokenEntry struct {
	tokens     []string
	residentID string
	name       string
	owner      bool
}

// cleanName strips parenthesised qualifiers ("AYŞE (KIZI)") and folds
// to uppercase.
func cleanName(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		if j := strings.IndexByte(name[i:], ')'); j >= 0 {
			name = name[:i] + name[i+j+1:]
		} else {
			name = name[:i]
		}
	}
	return turkish.Upper(strings.TrimSpace(name))
}

// surname is the last whitespace-separated token of the cleaned name.
func surname(name string) string {
	parts := strings.Fields(cleanName(name))
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// nameTokens returns the significant tokens of a name in dotless
// comparison form.
func nameTokens(name string) []string {
	var tokens []string
	for _, part := range strings.Fields(cleanName(name)) {
		if len([]rune(part)) > 2 {
			tokens = append(tokens, turkish.Dotless(part))
		}
	}
	return tokens
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewIndex builds the match index over a resident directory. Residents
// are indexed in (door, id) order so that every derived structure is
// independent of input ordering.
func NewIndex(residents []model.Resident, aliases []Alias) *Index {
	sorted := make([]model.Resident, len(residents))
	copy(sorted, residents)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DoorNumber != sorted[j].DoorNumber {
			return sorted[i].DoorNumber < sorted[j].DoorNumber
		}
		return sorted[i].ID < sorted[j].ID
	})

	idx := &Index{
		doorByDigits: make(map[string]string),
		surnames:     make(map[string][]string),
		aliases:      aliases,
		residents:    sorted,
	}

	seenName := make(map[string]bool)
	for _, r := range sorted {
		door := digitsOnly(intToString(r.DoorNumber))
		if door != "" {
			if _, taken := idx.doorByDigits[door]; !taken {
				idx.doorByDigits[door] = r.ID
			}
		}

		for i, raw := range []string{r.FullName, r.OwnerName} {
			if raw == "" {
				continue
			}
			name := cleanName(raw)
			key := turkish.Dotless(name)
			if len([]rune(key)) >= minNameLen && !seenName[key] {
				seenName[key] = true
				idx.fullNames = append(idx.fullNames, indexedName{name: name, key: key, residentID: r.ID})
			}

			if tokens := nameTokens(raw); len(tokens) >= 2 {
				idx.tokenSets = append(idx.tokenSets, tokenEntry{
					tokens:     tokens,
					residentID: r.ID,
					name:       name,
					owner:      i == 1,
				})
			}

			if s := turkish.Dotless(surname(raw)); len([]rune(s)) >= minNameLen {
				idx.surnames[s] = append(idx.surnames[s], r.ID)
			}
		}
	}

	// Longer names first so "ESAT KAAN AYDINALP" beats "ESAT KAAN"
	// when both are substrings; ties broken lexicographically.
	sort.SliceStable(idx.fullNames, func(i, j int) bool {
		a, b := idx.fullNames[i].key, idx.fullNames[j].key
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	idx.surnameKeys = make([]string, 0, len(idx.surnames))
	for s := range idx.surnames {
		idx.surnameKeys = append(idx.surnameKeys, s)
	}
	sort.Strings(idx.surnameKeys)

	return idx
}

func intToString(n int) string {
	if n <= 0 {
		return ""
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// matchUnitHint resolves an explicit apartment hint against unit
// numbers, digits-only.
func (idx *Index) matchUnitHint(c *model.Candidate) *Decision {
	door := digitsOnly(c.ApartmentHint)
	if door == "" {
		return nil
	}
	if id, ok := idx.doorByDigits[door]; ok {
		return &Decision{ResidentID: id, Reason: "Daire No Eşleşmesi: " + door}
	}
	return nil
}

// matchAlias applies the maintained misspelling overrides.
func (idx *Index) matchAlias(desc string) *Decision {
	for _, a := range idx.aliases {
		if !strings.Contains(desc, turkish.Dotless(a.Key)) {
			continue
		}
		target := cleanName(a.TargetName)
		for _, r := range idx.residents {
			if cleanName(r.FullName) == target {
				return &Decision{ResidentID: r.ID, Reason: "Özel Eşleşme: " + a.Key}
			}
		}
	}
	return nil
}

// matchFullName finds a resident or owner name verbatim inside the
// description.
func (idx *Index) matchFullName(desc string) *Decision {
	for _, entry := range idx.fullNames {
		if strings.Contains(desc, entry.key) {
			return &Decision{ResidentID: entry.residentID, Reason: "İsim Eşleşmesi: " + entry.name}
		}
	}
	return nil
}

// matchTokens requires every significant name token to appear in the
// description, in any order. Two tokens minimum blocks single-word
// false positives.
func (idx *Index) matchTokens(desc string) *Decision {
	for _, entry := range idx.tokenSets {
		all := true
		for _, tok := range entry.tokens {
			if !strings.Contains(desc, tok) {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		reason := "Kelime Eşleşmesi: " + entry.name
		if entry.owner {
			reason = "Kelime Eşleşmesi (Ev Sahibi): " + entry.name
		}
		return &Decision{ResidentID: entry.residentID, Reason: reason}
	}
	return nil
}

// matchUniqueSurname resolves only when the description contains
// exactly one known surname and that surname belongs to exactly one
// resident. Multiple surnames, or a shared surname, leave the
// candidate unmatched rather than guessing.
func (idx *Index) matchUniqueSurname(desc string) *Decision {
	var found string
	count := 0
	for _, s := range idx.surnameKeys {
		if strings.Contains(desc, s) {
			count++
			found = s
			if count > 1 {
				return nil
			}
		}
	}
	if count != 1 {
		return nil
	}
	ids := idx.surnames[found]
	if len(ids) != 1 {
		return nil
	}
	return &Decision{ResidentID: ids[0], Reason: "Soyisim Eşleşmesi: " + found}
}

// Match runs the strategy chain for one candidate.
func (idx *Index) Match(c *model.Candidate) *Decision {
	if d := idx.matchUnitHint(c); d != nil {
		return d
	}
	desc := turkish.Dotless(c.Description)
	for _, strategy := range []func(string) *Decision{
		idx.matchAlias,
		idx.matchFullName,
		idx.matchTokens,
		idx.matchUniqueSurname,
	} {
		if d := strategy(desc); d != nil {
			return d
		}
	}
	return nil
}

// AutoMatch annotates candidates with a resident reference where a
// strategy resolves one. Candidates that already carry a resident are
// never overwritten.
func AutoMatch(candidates []model.Candidate, residents []model.Resident) []model.Candidate {
	return AutoMatchWithAliases(candidates, residents, DefaultAliases)
}

// AutoMatchWithAliases is AutoMatch with an explicit alias table.
func AutoMatchWithAliases(candidates []model.Candidate, residents []model.Resident, aliases []Alias) []model.Candidate {
	if len(residents) == 0 {
		return candidates
	}
	idx := NewIndex(residents, aliases)

	out := make([]model.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		if out[i].ResidentID != "" {
			continue
		}
		if d := idx.Match(&out[i]); d != nil {
			out[i].ResidentID = d.ResidentID
			out[i].MatchReason = d.Reason
			if out[i].ApartmentHint == "" {
				if r := findResident(residents, d.ResidentID); r != nil {
					out[i].ApartmentHint = intToString(r.DoorNumber)
				}
			}
		}
	}
	return out
}

func findResident(residents []model.Resident, id string) *model.Resident {
	for i := range residents {
		if residents[i].ID == id {
			return &residents[i]
		}
	}
	return nil
}
