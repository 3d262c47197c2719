// Package ledger owns the in-memory collections and every operation
// that mutates them. Mutation is serialized through a Session; reads
// like the balance calculator are pure functions over the data.
package ledger

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

// EffectiveDate returns the day an accrual starts counting against a
// resident's balance: the first calendar day of the month after the
// posting date. Dues posted in month M are due the 1st of M+1.
func EffectiveDate(posted time.Time) time.Time {
	return time.Date(posted.Year(), posted.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// Balance computes a resident's signed balance as of a given date.
//
// Income counts immediately and positively. Personal debt counts
// immediately and negatively. Accruals count negatively only once
// their grace period has elapsed. A plain expense never affects an
// individual balance; it belongs to the building's cash totals.
func Balance(residentID string, txns []model.Transaction, asOf time.Time) decimal.Decimal {
	balance := decimal.Zero

	for i := range txns {
		t := &txns[i]
		if t.ResidentID == "" || t.ResidentID != residentID {
			continue
		}

		amt := t.Amount
		if amt.IsNegative() {
			slog.Warn("Negative stored amount treated as zero",
				"transaction_id", t.ID, "amount", amt)
			amt = decimal.Zero
		}

		switch t.Type {
		case model.TxIncome:
			balance = balance.Add(amt)
		case model.TxPersonalDebt:
			balance = balance.Sub(amt)
		case model.TxAccrual:
			if !asOf.Before(EffectiveDate(t.Date)) {
				balance = balance.Sub(amt)
			}
		case model.TxExpense:
			// Building expenses are shared cost, not personal debt.
		}
	}

	return balance
}

// Totals aggregates the building's cash position. Transactions without
// a resident reference still count here even though they are excluded
// from every per-resident balance. Personal debts are receivables, not
// cash movement, so they stay out of both sides.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is cash in minus cash out.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// ComputeTotals sums aggregate income and expense over all transactions.
func ComputeTotals(txns []model.Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for i := range txns {
		t := &txns[i]
		switch t.Type {
		case model.TxIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case model.TxExpense, model.TxAccrual:
			totals.Expense = totals.Expense.Add(t.Amount)
		case model.TxPersonalDebt:
		}
	}
	return totals
}
