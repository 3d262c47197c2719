package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/turkish"
)

// Label is one entry of the manual-resolution index: the display text
// a reviewer types against, and the resident it stands for.
type Label struct {
	Text       string
	ResidentID string
}

// BuildLabels precomputes the "Daire N: name" index used for manual
// resident lookup during review, sorted by unit number. Tenant labels
// carry the owner's name so a payment from the landlord still finds
// the unit.
func BuildLabels(residents []model.Resident) []Label {
	sorted := make([]model.Resident, len(residents))
	copy(sorted, residents)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DoorNumber != sorted[j].DoorNumber {
			return sorted[i].DoorNumber < sorted[j].DoorNumber
		}
		return sorted[i].ID < sorted[j].ID
	})

	labels := make([]Label, 0, len(sorted))
	for _, r := range sorted {
		display := r.FullName
		if r.Residency == model.ResidencyTenant && r.OwnerName != "" {
			display = fmt.Sprintf("%s (Ev S: %s)", r.FullName, r.OwnerName)
		}
		labels = append(labels, Label{
			Text:       fmt.Sprintf("Daire %d: %s", r.DoorNumber, display),
			ResidentID: r.ID,
		})
	}
	return labels
}

// Resolve matches free text against the label index. An exact label
// match always resolves. Otherwise a fuzzy "contains" lookup resolves
// only when exactly one label contains the text; several hits are
// ambiguous and none is no match - neither resolves.
func Resolve(labels []Label, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", common.ErrNoMatch
	}

	for _, l := range labels {
		if l.Text == query {
			return l.ResidentID, nil
		}
	}

	folded := turkish.Dotless(query)
	var hit *Label
	for i := range labels {
		if strings.Contains(turkish.Dotless(labels[i].Text), folded) {
			if hit != nil {
				return "", common.ErrAmbiguousMatch
			}
			hit = &labels[i]
		}
	}
	if hit == nil {
		return "", common.ErrNoMatch
	}
	return hit.ResidentID, nil
}
