package ledger

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/integrity"
	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/turkish"
)

// Persister is the persistence collaborator seam. Writes follow every
// mutation synchronously; write failures are logged rather than
// surfaced, because the in-memory state is already authoritative and
// the integrity pass at next open heals partial writes.
type Persister interface {
	LoadResidents(ctx context.Context) ([]model.Resident, error)
	SaveResidents(ctx context.Context, residents []model.Resident) error
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
	LoadAnnouncements(ctx context.Context) ([]model.Announcement, error)
	SaveAnnouncements(ctx context.Context, anns []model.Announcement) error
}

// Session owns the in-memory ledger for the lifetime of a process.
// All mutation funnels through it, one operation at a time: the mutex
// is what makes the single-writer discipline structural rather than a
// convention. Long-running operations (bulk accrual) hold the session
// for their whole duration and yield only via context checks.
type Session struct {
	persist Persister
	data    Data
	mint    idMint
	mu      sync.Mutex
}

// Open loads the persisted state, runs the integrity pass, and
// persists the healed collections when anything changed.
func Open(ctx context.Context, p Persister, corrections []integrity.Correction) (*Session, integrity.Report, error) {
	residents, err := p.LoadResidents(ctx)
	if err != nil {
		return nil, integrity.Report{}, err
	}
	txns, err := p.LoadTransactions(ctx)
	if err != nil {
		return nil, integrity.Report{}, err
	}
	anns, err := p.LoadAnnouncements(ctx)
	if err != nil {
		return nil, integrity.Report{}, err
	}

	residents, txns, report := integrity.Run(residents, txns, corrections)

	s := &Session{
		persist: p,
		data: Data{
			Residents:     residents,
			Transactions:  txns,
			Announcements: anns,
		},
	}
	s.mint.last = s.data.maxID()

	if !report.Clean() {
		s.persistResidents(ctx)
		s.persistTransactions(ctx)
	}
	return s, report, nil
}

func (s *Session) persistResidents(ctx context.Context) {
	if err := s.persist.SaveResidents(ctx, s.data.Residents); err != nil {
		slog.Error("Failed to persist residents", "error", err)
	}
}

func (s *Session) persistTransactions(ctx context.Context) {
	if err := s.persist.SaveTransactions(ctx, s.data.Transactions); err != nil {
		slog.Error("Failed to persist transactions", "error", err)
	}
}

func (s *Session) persistAnnouncements(ctx context.Context) {
	if err := s.persist.SaveAnnouncements(ctx, s.data.Announcements); err != nil {
		slog.Error("Failed to persist announcements", "error", err)
	}
}

// Residents returns a copy of the directory sorted by unit number.
func (s *Session) Residents() []model.Resident {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Resident, len(s.data.Residents))
	copy(out, s.data.Residents)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DoorNumber != out[j].DoorNumber {
			return out[i].DoorNumber < out[j].DoorNumber
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Transactions returns a copy of the ledger in creation order.
func (s *Session) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, len(s.data.Transactions))
	copy(out, s.data.Transactions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Announcements returns a copy of the saved announcement templates.
func (s *Session) Announcements() []model.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Announcement, len(s.data.Announcements))
	copy(out, s.data.Announcements)
	return out
}

// Resident looks up a single resident by ID.
func (s *Session) Resident(id string) (model.Resident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.data.FindResident(id); r != nil {
		return *r, nil
	}
	return model.Resident{}, common.ErrNotFound
}

// Balance computes a resident's balance as of the given date.
func (s *Session) Balance(residentID string, asOf time.Time) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Balance(residentID, s.data.Transactions, asOf)
}

// Totals aggregates the building's cash position.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.data.Transactions)
}

// AddResident validates and appends a new resident. The name is stored
// in its canonical uppercase form.
func (s *Session) AddResident(ctx context.Context, r model.Resident) (model.Resident, error) {
	if r.FullName == "" {
		return model.Resident{}, common.NewValidationError("fullName", "required")
	}
	if r.DoorNumber <= 0 {
		return model.Resident{}, common.NewValidationError("doorNumber", "must be a positive unit number")
	}
	if r.Residency == "" {
		r.Residency = model.ResidencyOwner
	}
	if r.Residency != model.ResidencyOwner && r.Residency != model.ResidencyTenant {
		return model.Resident{}, common.NewValidationError("type", "must be owner or tenant")
	}

	r.ID = uuid.NewString()
	r.FullName = turkish.Upper(r.FullName)
	if r.OwnerName != "" {
		r.OwnerName = turkish.Upper(r.OwnerName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Residents = append(s.data.Residents, r)
	s.persistResidents(ctx)
	return r, nil
}

// UpdateResident replaces an existing resident's details.
func (s *Session) UpdateResident(ctx context.Context, r model.Resident) error {
	if r.FullName == "" {
		return common.NewValidationError("fullName", "required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data.FindResident(r.ID)
	if existing == nil {
		return common.ErrNotFound
	}
	r.FullName = turkish.Upper(r.FullName)
	if r.OwnerName != "" {
		r.OwnerName = turkish.Upper(r.OwnerName)
	}
	*existing = r
	s.persistResidents(ctx)
	return nil
}

// RemoveResident deletes a resident by explicit request. Transactions
// referencing the removed resident keep their reference and surface as
// orphaned; they are never cascaded.
func (s *Session) RemoveResident(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Residents {
		if s.data.Residents[i].ID == id {
			s.data.Residents = append(s.data.Residents[:i], s.data.Residents[i+1:]...)
			s.persistResidents(ctx)
			return nil
		}
	}
	return common.ErrNotFound
}

// AddTransaction validates and appends a single manual entry. Unlike
// the import path, manual entry is blocking: any validation failure
// aborts before a write.
func (s *Session) AddTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if !t.Type.Valid() {
		return model.Transaction{}, common.NewValidationError("type", "unknown transaction type")
	}
	if !t.Amount.IsPositive() {
		return model.Transaction{}, common.NewValidationError("amount", "must be positive")
	}
	if t.Date.IsZero() {
		return model.Transaction{}, common.NewValidationError("date", "required")
	}
	if t.Description == "" {
		return model.Transaction{}, common.NewValidationError("description", "required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ResidentID != "" && s.data.FindResident(t.ResidentID) == nil {
		return model.Transaction{}, common.NewValidationError("residentId", "no such resident")
	}

	t.ID = s.mint.next()
	s.data.Transactions = append(s.data.Transactions, t)
	s.persistTransactions(ctx)
	return t, nil
}

// DeleteTransaction removes a single ledger entry.
func (s *Session) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Transactions {
		if s.data.Transactions[i].ID == id {
			s.data.Transactions = append(s.data.Transactions[:i], s.data.Transactions[i+1:]...)
			s.persistTransactions(ctx)
			return nil
		}
	}
	return common.ErrNotFound
}

// TxFilter selects transactions for filtered listings and batch
// delete. Zero fields match everything.
type TxFilter struct {
	Type       model.TxType
	Category   string
	ResidentID string
	From       time.Time
	To         time.Time
}

// Matches reports whether a transaction passes every set field.
func (f *TxFilter) Matches(t *model.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.ResidentID != "" && t.ResidentID != f.ResidentID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	return true
}

// DeleteTransactionsWhere removes every transaction matching the
// filter and reports how many were removed.
func (s *Session) DeleteTransactionsWhere(ctx context.Context, f TxFilter) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data.Transactions[:0]
	removed := 0
	for i := range s.data.Transactions {
		if f.Matches(&s.data.Transactions[i]) {
			removed++
			continue
		}
		kept = append(kept, s.data.Transactions[i])
	}
	s.data.Transactions = kept
	if removed > 0 {
		s.persistTransactions(ctx)
	}
	return removed
}

// AppendBatch appends pre-built transactions as one atomic batch with
// a single persistence write. IDs must already be minted via MintID.
func (s *Session) AppendBatch(ctx context.Context, txns []model.Transaction) {
	if len(txns) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Transactions = append(s.data.Transactions, txns...)
	s.persistTransactions(ctx)
}

// MintID returns the next creation-ordered token.
func (s *Session) MintID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mint.next()
}

// AddAnnouncement saves an announcement template.
func (s *Session) AddAnnouncement(ctx context.Context, title, body string) (model.Announcement, error) {
	if title == "" {
		return model.Announcement{}, common.NewValidationError("title", "required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := model.Announcement{
		ID:        s.mint.next(),
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	s.data.Announcements = append(s.data.Announcements, a)
	s.persistAnnouncements(ctx)
	return a, nil
}

// DeleteAnnouncement removes a saved announcement template.
func (s *Session) DeleteAnnouncement(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Announcements {
		if s.data.Announcements[i].ID == id {
			s.data.Announcements = append(s.data.Announcements[:i], s.data.Announcements[i+1:]...)
			s.persistAnnouncements(ctx)
			return nil
		}
	}
	return common.ErrNotFound
}
