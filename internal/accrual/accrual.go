// Package accrual generates batches of recurring dues charges, one per
// resident per month. Generation is idempotent: a charge that already
// exists for (resident, date, amount, dues category) is skipped, so an
// accidental second run adds nothing.
package accrual

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/model"
)

// Request describes one bulk accrual run.
type Request struct {
	BaseDate    time.Time
	Description string
	Amount      decimal.Decimal
	MonthCount  int
}

// Validate checks the request before any generation happens.
func (r *Request) Validate() error {
	if r.Description == "" {
		return common.NewValidationError("description", "required")
	}
	if !r.Amount.IsPositive() {
		return common.NewValidationError("amount", "must be positive")
	}
	if r.BaseDate.IsZero() {
		return common.NewValidationError("date", "required")
	}
	if r.MonthCount < 1 {
		return common.NewValidationError("monthCount", "must be at least 1")
	}
	return nil
}

// AddMonths shifts a calendar date by whole months, clamping the day
// to the target month's length so January 31 plus one month lands on
// the last day of February instead of rolling into March.
func AddMonths(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// dedupKey mirrors the idempotency guard: one dues charge per
// resident, date, and amount.
func dedupKey(residentID string, date time.Time, amount decimal.Decimal) string {
	return fmt.Sprintf("%s-%s-%s", residentID, date.Format(model.DateLayout), amount.StringFixed(2))
}

// Generate produces the new accrual transactions for the run. Existing
// transactions are consulted for the idempotency guard; the returned
// batch is meant to be appended atomically by the caller. mint supplies
// creation tokens; yield, when non-nil, is called after each resident
// so a host can keep its UI responsive. The context is checked at the
// same points - generation holds exclusive logical control between
// checks.
func Generate(ctx context.Context, residents []model.Resident, existing []model.Transaction, req Request, mint func() int64, yield func(done, total int)) ([]model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		t := &existing[i]
		if t.Type == model.TxAccrual && t.Category == model.CategoryDues {
			seen[dedupKey(t.ResidentID, t.Date, t.Amount)] = true
		}
	}

	batch := make([]model.Transaction, 0, len(residents)*req.MonthCount)
	for done, r := range residents {
		for offset := 0; offset < req.MonthCount; offset++ {
			date := AddMonths(req.BaseDate, offset)

			key := dedupKey(r.ID, date, req.Amount)
			if seen[key] {
				continue
			}
			seen[key] = true

			desc := req.Description
			if req.MonthCount > 1 {
				desc = fmt.Sprintf("%s (%d. Taksit)", req.Description, offset+1)
			}

			batch = append(batch, model.Transaction{
				ID:          mint(),
				Type:        model.TxAccrual,
				Amount:      req.Amount,
				Date:        date,
				Description: desc,
				Category:    model.CategoryDues,
				ResidentID:  r.ID,
			})
		}

		if yield != nil {
			yield(done+1, len(residents))
		}
		if err := ctx.Err(); err != nil {
			// Abandon the whole batch: the run is all or nothing.
			return nil, err
		}
	}

	return batch, nil
}
