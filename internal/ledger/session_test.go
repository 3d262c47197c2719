package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/model"
	"github.com/syaprakli/bina-yonetim/internal/storage"
)

func openSession(t *testing.T) (*storage.Store, *Session) {
	t.Helper()
	store, err := storage.Open(":memory:", storage.DefaultKey)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sess, _, err := Open(context.Background(), store, nil)
	require.NoError(t, err)
	return store, sess
}

func TestOpenHealsAndPersists(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(":memory:", storage.DefaultKey)
	require.NoError(t, err)
	defer store.Close()

	// two case-variant duplicates of the same unit
	require.NoError(t, store.SaveResidents(ctx, []model.Resident{
		{ID: "a", DoorNumber: 7, FullName: "AHMET YILMAZ", Residency: model.ResidencyOwner},
		{ID: "b", DoorNumber: 7, FullName: "ahmet yılmaz", Residency: model.ResidencyOwner},
	}))
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		{ID: 1000, Type: model.TxIncome, Amount: dec(500), Date: date(2024, time.January, 5), Description: "AİDAT", ResidentID: "b"},
	}))

	sess, report, err := Open(ctx, store, nil)
	require.NoError(t, err)
	assert.False(t, report.Clean())
	assert.Equal(t, 1, report.Merged)

	residents := sess.Residents()
	require.Len(t, residents, 1)
	assert.Equal(t, "a", residents[0].ID)

	txns := sess.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, "a", txns[0].ResidentID, "payment follows the surviving resident")

	// healed state is written back: a fresh session sees it clean
	sess2, report2, err := Open(ctx, store, nil)
	require.NoError(t, err)
	assert.True(t, report2.Clean())
	assert.Len(t, sess2.Residents(), 1)
}

func TestAddResidentValidationAndCanonicalName(t *testing.T) {
	_, sess := openSession(t)
	ctx := context.Background()

	_, err := sess.AddResident(ctx, model.Resident{DoorNumber: 1})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = sess.AddResident(ctx, model.Resident{FullName: "x", DoorNumber: 0})
	require.ErrorAs(t, err, &verr)

	_, err = sess.AddResident(ctx, model.Resident{FullName: "x", DoorNumber: 1, Residency: "squatter"})
	require.ErrorAs(t, err, &verr)

	r, err := sess.AddResident(ctx, model.Resident{
		FullName:   "ayşe çiğdem ılgaz",
		DoorNumber: 12,
		Residency:  model.ResidencyTenant,
		OwnerName:  "veli işler",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "AYŞE ÇİĞDEM ILGAZ", r.FullName)
	assert.Equal(t, "VELİ İŞLER", r.OwnerName)
}

func TestRemoveResidentKeepsOrphanedTransactions(t *testing.T) {
	_, sess := openSession(t)
	ctx := context.Background()

	r, err := sess.AddResident(ctx, model.Resident{FullName: "AHMET YILMAZ", DoorNumber: 3})
	require.NoError(t, err)

	_, err = sess.AddTransaction(ctx, model.Transaction{
		Type: model.TxIncome, Amount: dec(500),
		Date: date(2024, time.January, 5), Description: "AİDAT", ResidentID: r.ID,
	})
	require.NoError(t, err)

	require.NoError(t, sess.RemoveResident(ctx, r.ID))
	require.ErrorIs(t, sess.RemoveResident(ctx, r.ID), common.ErrNotFound)

	txns := sess.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, r.ID, txns[0].ResidentID, "reference dangles, row survives")
}

func TestAddTransactionValidation(t *testing.T) {
	_, sess := openSession(t)
	ctx := context.Background()
	base := model.Transaction{
		Type: model.TxExpense, Amount: dec(100),
		Date: date(2024, time.January, 5), Description: "ELEKTRİK", Category: "ELEKTRİK",
	}

	tests := []struct {
		name   string
		mutate func(*model.Transaction)
	}{
		{"unknown type", func(tx *model.Transaction) { tx.Type = "borrow" }},
		{"zero amount", func(tx *model.Transaction) { tx.Amount = dec(0) }},
		{"negative amount", func(tx *model.Transaction) { tx.Amount = dec(-5) }},
		{"zero date", func(tx *model.Transaction) { tx.Date = time.Time{} }},
		{"empty description", func(tx *model.Transaction) { tx.Description = "" }},
		{"dangling resident", func(tx *model.Transaction) { tx.ResidentID = "nobody" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := base
			tt.mutate(&tx)
			_, err := sess.AddTransaction(ctx, tx)
			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	assert.Empty(t, sess.Transactions(), "nothing written on failure")
}

func TestMintedIDsAreStrictlyIncreasing(t *testing.T) {
	_, sess := openSession(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		tx, err := sess.AddTransaction(ctx, model.Transaction{
			Type: model.TxExpense, Amount: dec(10),
			Date: date(2024, time.January, 5), Description: "SU", Category: "SU",
		})
		require.NoError(t, err)
		assert.Greater(t, tx.ID, last)
		last = tx.ID
	}
	assert.GreaterOrEqual(t, last, time.Now().Add(-time.Minute).UnixMilli())
}

func TestDeleteTransactionsWhere(t *testing.T) {
	_, sess := openSession(t)
	ctx := context.Background()

	r, err := sess.AddResident(ctx, model.Resident{FullName: "AHMET YILMAZ", DoorNumber: 1})
	require.NoError(t, err)

	add := func(txType model.TxType, category string, day int, residentID string) {
		t.Helper()
		_, err := sess.AddTransaction(ctx, model.Transaction{
			Type: txType, Amount: dec(100), Category: category,
			Date: date(2024, time.January, day), Description: "KAYIT", ResidentID: residentID,
		})
		require.NoError(t, err)
	}
	add(model.TxAccrual, model.CategoryDues, 1, r.ID)
	add(model.TxAccrual, model.CategoryDues, 20, r.ID)
	add(model.TxIncome, "", 20, r.ID)
	add(model.TxExpense, "ELEKTRİK", 25, "")

	removed := sess.DeleteTransactionsWhere(ctx, TxFilter{
		Type:     model.TxAccrual,
		Category: model.CategoryDues,
		From:     date(2024, time.January, 10),
	})
	assert.Equal(t, 1, removed)
	assert.Len(t, sess.Transactions(), 3)

	removed = sess.DeleteTransactionsWhere(ctx, TxFilter{ResidentID: r.ID})
	assert.Equal(t, 2, removed)
	assert.Len(t, sess.Transactions(), 1)

	removed = sess.DeleteTransactionsWhere(ctx, TxFilter{Type: model.TxPersonalDebt})
	assert.Zero(t, removed)
}

func TestAppendBatchSurvivesReopen(t *testing.T) {
	store, sess := openSession(t)
	ctx := context.Background()

	txns := make([]model.Transaction, 0, 3)
	for i := 0; i < 3; i++ {
		txns = append(txns, model.Transaction{
			ID: sess.MintID(), Type: model.TxAccrual, Amount: dec(500),
			Date: date(2024, time.Month(i+1), 1), Description: "AİDAT",
			Category: model.CategoryDues, ResidentID: "",
		})
	}
	sess.AppendBatch(ctx, txns)
	require.Len(t, sess.Transactions(), 3)

	sess2, _, err := Open(ctx, store, nil)
	require.NoError(t, err)
	assert.Len(t, sess2.Transactions(), 3)
}

func TestAnnouncements(t *testing.T) {
	_, sess := openSession(t)
	ctx := context.Background()

	_, err := sess.AddAnnouncement(ctx, "", "gövde")
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	a, err := sess.AddAnnouncement(ctx, "SU KESİNTİSİ", "Yarın 09:00-12:00 su yok.")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)

	require.Len(t, sess.Announcements(), 1)
	require.NoError(t, sess.DeleteAnnouncement(ctx, a.ID))
	require.ErrorIs(t, sess.DeleteAnnouncement(ctx, a.ID), common.ErrNotFound)
	assert.Empty(t, sess.Announcements())
}
