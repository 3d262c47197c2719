package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

// Backup is the export/import file format: a single JSON document with
// top-level arrays for each persisted collection.
type Backup struct {
	Residents          []model.Resident     `json:"residents"`
	Transactions       []model.Transaction  `json:"transactions"`
	SavedAnnouncements []model.Announcement `json:"savedAnnouncements,omitempty"`
}

// ParseBackup validates and decodes a backup document. The residents
// and transactions keys must be present (possibly empty arrays);
// savedAnnouncements is optional.
func ParseBackup(data []byte) (*Backup, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("invalid backup document: %w", err)
	}
	if _, ok := keys["residents"]; !ok {
		return nil, fmt.Errorf("invalid backup document: missing residents")
	}
	if _, ok := keys["transactions"]; !ok {
		return nil, fmt.Errorf("invalid backup document: missing transactions")
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("invalid backup document: %w", err)
	}
	return &b, nil
}

// Export captures the current persisted state as a backup document.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	residents, err := s.LoadResidents(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	anns, err := s.LoadAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	b := Backup{
		Residents:          residents,
		Transactions:       txns,
		SavedAnnouncements: anns,
	}
	if b.Residents == nil {
		b.Residents = []model.Resident{}
	}
	if b.Transactions == nil {
		b.Transactions = []model.Transaction{}
	}
	return json.MarshalIndent(b, "", "  ")
}

// Restore replaces the entire persisted state with the backup's
// contents. The document is validated before anything is written.
func (s *Store) Restore(ctx context.Context, data []byte) (*Backup, error) {
	b, err := ParseBackup(data)
	if err != nil {
		return nil, err
	}

	if err := s.SaveResidents(ctx, b.Residents); err != nil {
		return nil, err
	}
	if err := s.SaveTransactions(ctx, b.Transactions); err != nil {
		return nil, err
	}
	if err := s.SaveAnnouncements(ctx, b.SavedAnnouncements); err != nil {
		return nil, err
	}
	return b, nil
}
