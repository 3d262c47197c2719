// Package review drives an import batch from raw rows to committed
// ledger entries. A batch moves through a fixed lifecycle; every
// reviewer edit happens between auto-matching and the final
// commit-or-discard decision, and nothing touches the ledger until
// Commit.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/importer"
	"github.com/syaprakli/bina-yonetim/internal/ledger"
	"github.com/syaprakli/bina-yonetim/internal/match"
	"github.com/syaprakli/bina-yonetim/internal/model"
)

// State names a batch's position in its lifecycle.
type State string

// Batch lifecycle states.
const (
	StateParsed      State = "parsed"
	StateNormalized  State = "normalized"
	StateAutoMatched State = "auto_matched"
	StateUnderReview State = "under_review"
	StateCommitted   State = "committed"
	StateDiscarded   State = "discarded"
)

// Batch is one import run's worth of candidate transactions.
type Batch struct {
	state State
	raw   []importer.RawRow
	rows  []model.Candidate
}

// NewBatch starts a batch from parsed raw rows.
func NewBatch(raw []importer.RawRow) *Batch {
	return &Batch{state: StateParsed, raw: raw}
}

// State returns the batch's current lifecycle state.
func (b *Batch) State() State {
	return b.state
}

// Rows returns a copy of the current candidate rows.
func (b *Batch) Rows() []model.Candidate {
	out := make([]model.Candidate, len(b.rows))
	copy(out, b.rows)
	return out
}

func (b *Batch) requireState(want State) error {
	if b.state != want {
		return fmt.Errorf("%w: %s operation in state %s", common.ErrBadState, want, b.state)
	}
	return nil
}

// Normalize converts the raw rows into candidates, dropping rows the
// normalizer cannot use.
func (b *Batch) Normalize(today time.Time) error {
	if err := b.requireState(StateParsed); err != nil {
		return err
	}
	b.rows = importer.Normalize(b.raw, today)
	b.raw = nil
	b.state = StateNormalized
	return nil
}

// AutoMatch runs the matching engine over the normalized rows.
func (b *Batch) AutoMatch(residents []model.Resident) error {
	if err := b.requireState(StateNormalized); err != nil {
		return err
	}
	b.rows = match.AutoMatch(b.rows, residents)
	b.state = StateAutoMatched
	return nil
}

// BeginReview opens the batch for per-row edits.
func (b *Batch) BeginReview() error {
	if err := b.requireState(StateAutoMatched); err != nil {
		return err
	}
	b.state = StateUnderReview
	return nil
}

func (b *Batch) editableRow(index int) (*model.Candidate, error) {
	if err := b.requireState(StateUnderReview); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(b.rows) {
		return nil, fmt.Errorf("row %d out of range", index)
	}
	return &b.rows[index], nil
}

// SetType changes a row's transaction type. Income rows carry a
// resident instead of an expense category, so switching to income
// clears the sub-category detail.
func (b *Batch) SetType(index int, t model.TxType) error {
	row, err := b.editableRow(index)
	if err != nil {
		return err
	}
	if !t.Valid() {
		return common.NewValidationError("type", "unknown transaction type")
	}
	row.Type = t
	if t == model.TxIncome {
		row.SubCategory = ""
		row.Category = ""
	}
	return nil
}

// SetCategory changes a row's expense category. Only the catch-all
// bucket keeps a sub-category detail.
func (b *Batch) SetCategory(index int, category string) error {
	row, err := b.editableRow(index)
	if err != nil {
		return err
	}
	if category != "" && !model.ValidExpenseCategory(category) {
		return common.NewValidationError("category", "unknown category")
	}
	row.Category = category
	if category != model.CategoryOther {
		row.SubCategory = ""
	}
	return nil
}

// SetSubCategory sets the free-text detail on a catch-all row.
func (b *Batch) SetSubCategory(index int, sub string) error {
	row, err := b.editableRow(index)
	if err != nil {
		return err
	}
	row.SubCategory = sub
	return nil
}

// SetResident assigns a resident to a row, replacing any auto-match.
func (b *Batch) SetResident(index int, residentID string) error {
	row, err := b.editableRow(index)
	if err != nil {
		return err
	}
	row.ResidentID = residentID
	row.MatchReason = ""
	return nil
}

// ResolveResident assigns a resident found by free-text lookup against
// the label index. Ambiguous text is an error; the row is unchanged.
func (b *Batch) ResolveResident(index int, labels []match.Label, query string) error {
	row, err := b.editableRow(index)
	if err != nil {
		return err
	}
	id, err := match.Resolve(labels, query)
	if err != nil {
		return err
	}
	row.ResidentID = id
	row.MatchReason = ""
	return nil
}

// Commit deep-copies every reviewed row into a brand-new persisted
// transaction with a freshly minted ID and appends them to the ledger
// as one atomic batch. The transient review rows are never reused as
// ledger entries.
func (b *Batch) Commit(ctx context.Context, sess *ledger.Session) ([]model.Transaction, error) {
	if err := b.requireState(StateUnderReview); err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(b.rows))
	for i := range b.rows {
		row := b.rows[i]
		if !row.Type.Valid() || !row.Amount.IsPositive() {
			return nil, common.NewValidationError("row", fmt.Sprintf("row %d is not committable", i))
		}
		txns = append(txns, model.Transaction{
			ID:          sess.MintID(),
			Type:        row.Type,
			Amount:      row.Amount,
			Date:        row.Date,
			Description: row.Description,
			Category:    row.Category,
			SubCategory: row.SubCategory,
			ResidentID:  row.ResidentID,
		})
	}

	sess.AppendBatch(ctx, txns)
	b.state = StateCommitted
	return txns, nil
}

// Discard abandons the batch. The ledger is untouched.
func (b *Batch) Discard() error {
	if err := b.requireState(StateUnderReview); err != nil {
		return err
	}
	b.rows = nil
	b.state = StateDiscarded
	return nil
}
