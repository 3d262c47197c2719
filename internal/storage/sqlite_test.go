package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestObfuscateRoundTrip(t *testing.T) {
	key := []byte(DefaultKey)
	plain := []byte(`[{"id":"abc","fullName":"İHSAN DİNÇ"}]`)

	encoded := Obfuscate(plain, key)
	assert.NotEqual(t, string(plain), encoded)

	decoded, err := Deobfuscate(encoded, key)
	require.NoError(t, err)
	assert.Equal(t, plain, decoded)
}

func TestDeobfuscateRejectsNonBase64(t *testing.T) {
	_, err := Deobfuscate("not base64 at all!!!", []byte(DefaultKey))
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	residents := []model.Resident{
		{ID: "r1", DoorNumber: 5, FullName: "AHMET YILMAZ", Residency: model.ResidencyOwner},
		{ID: "r2", DoorNumber: 7, FullName: "SEÇKİN ALAGÖZ", Residency: model.ResidencyTenant, OwnerName: "NACİ ATEŞ"},
	}
	txns := []model.Transaction{
		{
			ID:          1700000000000,
			Type:        model.TxAccrual,
			Amount:      decimal.NewFromInt(500),
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Description: "Ocak Aidatı",
			Category:    model.CategoryDues,
			ResidentID:  "r1",
		},
	}

	require.NoError(t, s.SaveResidents(ctx, residents))
	require.NoError(t, s.SaveTransactions(ctx, txns))

	gotResidents, err := s.LoadResidents(ctx)
	require.NoError(t, err)
	assert.Equal(t, residents, gotResidents)

	gotTxns, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, gotTxns, 1)
	assert.Equal(t, txns[0].ID, gotTxns[0].ID)
	assert.True(t, txns[0].Amount.Equal(gotTxns[0].Amount))
	assert.Equal(t, "Ocak Aidatı", gotTxns[0].Description)
}

func TestStoreRecordsAreObfuscatedAtRest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveResidents(ctx, []model.Resident{{ID: "r1", FullName: "AHMET YILMAZ"}}))

	raw, err := s.readRecord(ctx, RecordResidents)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "AHMET")
}

func TestLoadLegacyPlainJSON(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Records written before obfuscation was introduced are raw JSON.
	legacy := `[{"id":"r9","doorNumber":9,"fullName":"NUMAN BOLAT","type":"owner"}]`
	require.NoError(t, s.writeRecord(ctx, RecordResidents, []byte(legacy)))

	residents, err := s.LoadResidents(ctx)
	require.NoError(t, err)
	require.Len(t, residents, 1)
	assert.Equal(t, "NUMAN BOLAT", residents[0].FullName)
}

func TestLoadCorruptRecordDegradesToEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.writeRecord(ctx, RecordTransactions, []byte("\x00\xffgarbage not json not base64")))

	txns, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestLoadMissingRecordIsEmpty(t *testing.T) {
	s := newTestStore(t)

	anns, err := s.LoadAnnouncements(context.Background())
	require.NoError(t, err)
	assert.Empty(t, anns)
}

func TestParseBackupValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid with both required keys",
			input:   `{"residents":[],"transactions":[]}`,
			wantErr: false,
		},
		{
			name:    "valid with announcements",
			input:   `{"residents":[],"transactions":[],"savedAnnouncements":[]}`,
			wantErr: false,
		},
		{
			name:    "missing transactions",
			input:   `{"residents":[]}`,
			wantErr: true,
		},
		{
			name:    "missing residents",
			input:   `{"transactions":[]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `hello`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBackup([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	residents := []model.Resident{{ID: "r1", DoorNumber: 3, FullName: "NUMAN BOLAT", Residency: model.ResidencyOwner}}
	require.NoError(t, s.SaveResidents(ctx, residents))
	require.NoError(t, s.SaveTransactions(ctx, []model.Transaction{}))

	doc, err := s.Export(ctx)
	require.NoError(t, err)

	other := newTestStore(t)
	restored, err := other.Restore(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, residents, restored.Residents)

	got, err := other.LoadResidents(ctx)
	require.NoError(t, err)
	assert.Equal(t, residents, got)
}

func TestRestoreInvalidDocumentWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	existing := []model.Resident{{ID: "keep", FullName: "FİRMA"}}
	require.NoError(t, s.SaveResidents(ctx, existing))

	_, err := s.Restore(ctx, []byte(`{"residents":[]}`))
	require.Error(t, err)

	got, err := s.LoadResidents(ctx)
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}
