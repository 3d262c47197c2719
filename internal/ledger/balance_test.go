package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestEffectiveDate(t *testing.T) {
	tests := []struct {
		posted time.Time
		want   time.Time
	}{
		{date(2024, time.January, 1), date(2024, time.February, 1)},
		{date(2024, time.January, 31), date(2024, time.February, 1)},
		{date(2024, time.December, 15), date(2025, time.January, 1)},
		{date(2024, time.February, 29), date(2024, time.March, 1)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EffectiveDate(tt.posted), "posted %s", tt.posted)
	}
}

func TestBalanceAccrualGracePeriod(t *testing.T) {
	// Three monthly dues of 500 starting January 1st. Mid-March only the
	// January and February charges are past their grace period; from
	// April 1st all three count.
	txns := []model.Transaction{
		{ID: 1, Type: model.TxAccrual, Amount: dec(500), Date: date(2024, time.January, 1), ResidentID: "r1"},
		{ID: 2, Type: model.TxAccrual, Amount: dec(500), Date: date(2024, time.February, 1), ResidentID: "r1"},
		{ID: 3, Type: model.TxAccrual, Amount: dec(500), Date: date(2024, time.March, 1), ResidentID: "r1"},
	}

	tests := []struct {
		asOf time.Time
		want int64
	}{
		{date(2024, time.January, 15), 0},
		{date(2024, time.February, 1), -500},
		{date(2024, time.March, 15), -1000},
		{date(2024, time.March, 31), -1000},
		{date(2024, time.April, 1), -1500},
		{date(2025, time.June, 1), -1500},
	}
	for _, tt := range tests {
		got := Balance("r1", txns, tt.asOf)
		assert.True(t, dec(tt.want).Equal(got), "asOf %s: want %d got %s", tt.asOf, tt.want, got)
	}
}

func TestBalanceIncomeAndPersonalDebt(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Type: model.TxIncome, Amount: dec(1500), Date: date(2024, time.March, 5), ResidentID: "r1"},
		{ID: 2, Type: model.TxPersonalDebt, Amount: dec(200), Date: date(2024, time.March, 5), ResidentID: "r1"},
		{ID: 3, Type: model.TxIncome, Amount: dec(999), Date: date(2024, time.March, 5), ResidentID: "r2"},
	}

	// income counts the day it lands, personal debt likewise;
	// other residents' rows never leak in
	got := Balance("r1", txns, date(2024, time.March, 5))
	assert.True(t, dec(1300).Equal(got), "got %s", got)
}

func TestBalanceIgnoresPlainExpenses(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Type: model.TxIncome, Amount: dec(500), Date: date(2024, time.January, 1), ResidentID: "r1"},
		{ID: 2, Type: model.TxExpense, Amount: dec(10000), Date: date(2024, time.January, 2), Category: "PERSONEL MAAŞ", ResidentID: "r1"},
	}
	got := Balance("r1", txns, date(2024, time.June, 1))
	assert.True(t, dec(500).Equal(got), "expense must not move the balance, got %s", got)
}

func TestBalanceSkipsUnassignedRows(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Type: model.TxIncome, Amount: dec(500), Date: date(2024, time.January, 1)},
	}
	got := Balance("", txns, date(2024, time.June, 1))
	assert.True(t, got.IsZero(), "blank resident id never matches, got %s", got)
}

func TestBalanceNegativeStoredAmountTreatedAsZero(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Type: model.TxIncome, Amount: dec(500), Date: date(2024, time.January, 1), ResidentID: "r1"},
		{ID: 2, Type: model.TxPersonalDebt, Amount: dec(-300), Date: date(2024, time.January, 2), ResidentID: "r1"},
	}
	got := Balance("r1", txns, date(2024, time.June, 1))
	assert.True(t, dec(500).Equal(got), "got %s", got)
}

func TestComputeTotals(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Type: model.TxIncome, Amount: dec(1500), ResidentID: "r1"},
		{ID: 2, Type: model.TxIncome, Amount: dec(800)},
		{ID: 3, Type: model.TxExpense, Amount: dec(1200), Category: "ELEKTRİK"},
		{ID: 4, Type: model.TxAccrual, Amount: dec(500), ResidentID: "r1"},
		{ID: 5, Type: model.TxPersonalDebt, Amount: dec(9999), ResidentID: "r1"},
	}
	totals := ComputeTotals(txns)
	assert.True(t, dec(2300).Equal(totals.Income), "income %s", totals.Income)
	assert.True(t, dec(1700).Equal(totals.Expense), "expense %s", totals.Expense)
	assert.True(t, dec(600).Equal(totals.Net()), "net %s", totals.Net())
}
