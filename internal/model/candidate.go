package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a provisional transaction produced by the import
// normalizer. It has the shape of a Transaction but no ID; it is not
// persisted until the review pipeline commits it.
type Candidate struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory,omitempty"`
	ResidentID  string          `json:"residentId,omitempty"`
	Type        TxType          `json:"type"`
	// ApartmentHint is a unit number found in the source row (explicit
	// spreadsheet column or AI-extracted field), carried through
	// untouched for the matching engine. Empty means no hint.
	ApartmentHint string `json:"apartmentNo,omitempty"`
	// MatchReason records which strategy resolved ResidentID, for
	// review display. Empty when unmatched or manually assigned.
	MatchReason string          `json:"matchReason,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}
