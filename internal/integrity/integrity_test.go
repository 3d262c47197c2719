package integrity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

func accrual(id int64, residentID string, amount int64, date, desc string) model.Transaction {
	d, _ := time.ParseInLocation(model.DateLayout, date, time.UTC)
	return model.Transaction{
		ID:          id,
		Type:        model.TxAccrual,
		Amount:      decimal.NewFromInt(amount),
		Date:        d,
		Description: desc,
		Category:    model.CategoryDues,
		ResidentID:  residentID,
	}
}

func TestRunMergesCaseVariantResidents(t *testing.T) {
	residents := []model.Resident{
		{ID: "1", DoorNumber: 5, FullName: "AHMET YILMAZ"},
		{ID: "2", DoorNumber: 5, FullName: "ahmet yilmaz"},
	}
	txns := []model.Transaction{
		accrual(100, "2", 500, "2024-01-01", "Ocak Aidatı"),
	}

	gotResidents, gotTxns, report := Run(residents, txns, nil)

	require.Len(t, gotResidents, 1)
	assert.Equal(t, "1", gotResidents[0].ID)
	require.Len(t, gotTxns, 1)
	assert.Equal(t, "1", gotTxns[0].ResidentID, "transaction must follow the survivor")
	assert.Equal(t, 1, report.Merged)
	assert.Equal(t, 1, report.Reassigned)
}

func TestRunKeepsDistinctResidents(t *testing.T) {
	residents := []model.Resident{
		{ID: "1", DoorNumber: 5, FullName: "AHMET YILMAZ"},
		{ID: "2", DoorNumber: 6, FullName: "AHMET YILMAZ"},
		{ID: "3", DoorNumber: 5, FullName: "MEHMET YILMAZ"},
	}

	gotResidents, _, report := Run(residents, nil, nil)
	assert.Len(t, gotResidents, 3)
	assert.True(t, report.Clean())
}

func TestRunAppliesCorrectionsBeforeMerge(t *testing.T) {
	// Both spellings of door 39's resident must land on the same merge
	// key once the correction has been applied.
	residents := []model.Resident{
		{ID: "a", DoorNumber: 39, FullName: "Ihsan Dinc"},
		{ID: "b", DoorNumber: 39, FullName: "İHSAN DİNÇ"},
	}

	gotResidents, _, report := Run(residents, nil, DefaultCorrections)

	require.Len(t, gotResidents, 1)
	assert.Equal(t, "İHSAN DİNÇ", gotResidents[0].FullName)
	assert.Equal(t, "a", gotResidents[0].ID)
	assert.Positive(t, report.Renamed)
	assert.Equal(t, 1, report.Merged)
}

func TestRunDropsDoubleSubmittedAccruals(t *testing.T) {
	txns := []model.Transaction{
		accrual(10000, "r1", 500, "2024-01-01", "Ocak Aidatı"),
		accrual(14999, "r1", 500, "2024-01-01", "Ocak Aidatı"), // 4999 later: double click
		accrual(15001, "r1", 500, "2024-01-01", "Ocak Aidatı"), // 5001 later: legitimate
	}

	_, gotTxns, report := Run(nil, txns, nil)

	require.Len(t, gotTxns, 2)
	assert.Equal(t, int64(10000), gotTxns[0].ID, "earliest entry is always retained")
	assert.Equal(t, int64(15001), gotTxns[1].ID)
	assert.Equal(t, 1, report.DroppedTxns)
}

func TestRunDedupSkipsNonAccruals(t *testing.T) {
	d, _ := time.ParseInLocation(model.DateLayout, "2024-01-01", time.UTC)
	income := func(id int64) model.Transaction {
		return model.Transaction{
			ID: id, Type: model.TxIncome, Amount: decimal.NewFromInt(500),
			Date: d, Description: "Aidat Ödemesi", ResidentID: "r1",
		}
	}
	txns := []model.Transaction{income(10000), income(10001)}

	_, gotTxns, report := Run(nil, txns, nil)
	assert.Len(t, gotTxns, 2, "income is never deduplicated, only accruals")
	assert.Zero(t, report.DroppedTxns)
}

func TestRunDedupGroupsByKey(t *testing.T) {
	txns := []model.Transaction{
		accrual(10000, "r1", 500, "2024-01-01", "Ocak Aidatı"),
		accrual(10001, "r2", 500, "2024-01-01", "Ocak Aidatı"),   // different resident
		accrual(10002, "r1", 600, "2024-01-01", "Ocak Aidatı"),   // different amount
		accrual(10003, "r1", 500, "2024-02-01", "Ocak Aidatı"),   // different date
		accrual(10004, "r1", 500, "2024-01-01", "Şubat Aidatı"),  // different description
	}

	_, gotTxns, report := Run(nil, txns, nil)
	assert.Len(t, gotTxns, 5)
	assert.Zero(t, report.DroppedTxns)
}

func TestRunIsIdempotent(t *testing.T) {
	residents := []model.Resident{
		{ID: "1", DoorNumber: 5, FullName: "AHMET YILMAZ"},
		{ID: "2", DoorNumber: 5, FullName: "ahmet yilmaz"},
	}
	txns := []model.Transaction{
		accrual(10000, "2", 500, "2024-01-01", "Ocak Aidatı"),
		accrual(10100, "1", 500, "2024-01-01", "Ocak Aidatı"),
	}

	r1, t1, report1 := Run(residents, txns, DefaultCorrections)
	assert.False(t, report1.Clean())

	r2, t2, report2 := Run(r1, t1, DefaultCorrections)
	assert.True(t, report2.Clean(), "second run on healed data must be a no-op")
	assert.Equal(t, r1, r2)
	assert.Equal(t, t1, t2)
}

func TestRunEmptyData(t *testing.T) {
	gotResidents, gotTxns, report := Run(nil, nil, DefaultCorrections)
	assert.Empty(t, gotResidents)
	assert.Empty(t, gotTxns)
	assert.True(t, report.Clean())
}
