// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the closed set of transaction kinds. The Balance calculator
// branches exhaustively on it.
type TxType string

const (
	// TxIncome is a payment received; it always counts toward a
	// resident's balance immediately.
	TxIncome TxType = "income"
	// TxExpense is a building expense; it never touches an individual
	// resident's balance, only aggregate cash totals.
	TxExpense TxType = "expense"
	// TxPersonalDebt is a manager-asserted debt with immediate effect.
	TxPersonalDebt TxType = "personal_debt"
	// TxAccrual is a posted recurring charge (monthly dues). It counts
	// as outstanding debt only after a one-month grace period.
	TxAccrual TxType = "accrual"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxPersonalDebt, TxAccrual:
		return true
	}
	return false
}

// Transaction is a single persisted ledger entry.
//
// ID is a creation-ordered token minted by the ledger store. It is
// monotonically increasing and derived from unix milliseconds, so ID
// distance doubles as a time proxy for the duplicate-submission window.
//
// ResidentID is a weak reference: it is lookup-only, carries no
// ownership, and is allowed to dangle after a resident is removed.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory,omitempty"`
	ResidentID  string          `json:"residentId,omitempty"`
	Type        TxType          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	ID          int64           `json:"id"`
}

// DateKey returns the calendar date in YYYY-MM-DD form, the canonical
// representation for persistence and duplicate keys.
func (t *Transaction) DateKey() string {
	return t.Date.Format("2006-01-02")
}
