// Package integrity implements the startup self-healing pass over the
// ledger: targeted name corrections, duplicate-resident merging, and
// duplicate-accrual removal. The pass is idempotent; running it on
// clean data changes nothing, so it is safe to run unconditionally at
// every session open. That is also what heals a process interruption
// between a merge's reassignment and removal steps.
package integrity

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/turkish"
)

// DuplicateWindow is the creation-token distance under which two
// identical accruals are treated as one accidental double submission.
// Tokens are unix-millisecond based, so this is roughly five seconds.
const DuplicateWindow = 5000

// Correction patches a unit's resident name to its canonical spelling
// before merge keys are computed.
type Correction struct {
	FullName string
	Door     int
}

// DefaultCorrections is the fixed migration fix-up list carried over
// from earlier deployments.
var DefaultCorrections = []Correction{
	{Door: 3, FullName: "NUMAN BOLAT"},
	{Door: 15, FullName: "İSMİ BİLİNMİYOR"},
	{Door: 32, FullName: "HAKAN ARSLAN"},
	{Door: 33, FullName: "NACİ ATEŞ"},
	{Door: 35, FullName: "FATİH USLU"},
	{Door: 39, FullName: "İHSAN DİNÇ"},
	{Door: 41, FullName: "SEÇKİN ALAGÖZ"},
	{Door: 42, FullName: "İSMAİL GÖRGÜL"},
	{Door: 45, FullName: "FİRMA"},
	{Door: 49, FullName: "FİRMA"},
}

// Report summarizes what the pass changed.
type Report struct {
	Renamed     int
	Merged      int
	Reassigned  int
	DroppedTxns int
}

// Clean reports whether the pass was a no-op.
func (r Report) Clean() bool {
	return r.Renamed == 0 && r.Merged == 0 && r.Reassigned == 0 && r.DroppedTxns == 0
}

// mergeKey identifies a resident for duplicate detection: unit number
// plus the case-folded, whitespace-stripped name.
func mergeKey(r *model.Resident) string {
	return fmt.Sprintf("%d-%s", r.DoorNumber, turkish.Fold(r.FullName))
}

// Run executes the ordered integrity steps and returns the healed
// collections. Inputs are not mutated.
func Run(residents []model.Resident, txns []model.Transaction, corrections []Correction) ([]model.Resident, []model.Transaction, Report) {
	var report Report

	outResidents := make([]model.Resident, len(residents))
	copy(outResidents, residents)
	outTxns := make([]model.Transaction, len(txns))
	copy(outTxns, txns)

	// Step 1: targeted corrections, so corrected names participate in
	// merge-key generation below.
	for _, c := range corrections {
		for i := range outResidents {
			r := &outResidents[i]
			if r.DoorNumber == c.Door && r.FullName != c.FullName {
				slog.Warn("Correcting resident name",
					"door", c.Door, "from", r.FullName, "to", c.FullName)
				r.FullName = c.FullName
				report.Renamed++
			}
		}
	}

	// Step 2: merge duplicate residents. The first resident seen per
	// key survives; transactions pointing at a duplicate are
	// reassigned before the duplicate is dropped. Reassign-then-remove
	// order is what keeps an interrupted run recoverable.
	survivorByKey := make(map[string]string)
	replacement := make(map[string]string)
	kept := outResidents[:0]
	for i := range outResidents {
		r := outResidents[i]
		key := mergeKey(&r)
		if survivor, ok := survivorByKey[key]; ok {
			replacement[r.ID] = survivor
			continue
		}
		survivorByKey[key] = r.ID
		kept = append(kept, r)
	}

	if len(replacement) > 0 {
		for i := range outTxns {
			if survivor, ok := replacement[outTxns[i].ResidentID]; ok {
				outTxns[i].ResidentID = survivor
				report.Reassigned++
			}
		}
		report.Merged = len(replacement)
		slog.Warn("Merged duplicate residents",
			"merged", report.Merged, "reassigned_transactions", report.Reassigned)
	}
	outResidents = kept

	// Step 3: drop double-submitted accruals. Among accruals sharing
	// (resident, amount, date, description), anything minted within
	// DuplicateWindow of the group's earliest entry is an accidental
	// duplicate. The earliest entry is always retained.
	order := make([]int, len(outTxns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return outTxns[order[a]].ID < outTxns[order[b]].ID
	})

	firstInGroup := make(map[string]int64)
	drop := make(map[int64]bool)
	for _, idx := range order {
		t := &outTxns[idx]
		if t.Type != model.TxAccrual {
			continue
		}
		key := fmt.Sprintf("%s-%s-%s-%s", t.ResidentID, t.Amount.StringFixed(2), t.DateKey(), t.Description)
		first, seen := firstInGroup[key]
		if !seen {
			firstInGroup[key] = t.ID
			continue
		}
		if t.ID-first < DuplicateWindow {
			drop[t.ID] = true
		}
	}

	if len(drop) > 0 {
		filtered := outTxns[:0]
		for i := range outTxns {
			if drop[outTxns[i].ID] {
				report.DroppedTxns++
				continue
			}
			filtered = append(filtered, outTxns[i])
		}
		outTxns = filtered
		slog.Warn("Dropped duplicate accruals", "count", report.DroppedTxns)
	}

	return outResidents, outTxns, report
}
