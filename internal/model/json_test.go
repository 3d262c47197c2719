package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionJSONRoundTrip(t *testing.T) {
	orig := Transaction{
		ID:          1700000000123,
		Type:        TxAccrual,
		Amount:      decimal.NewFromInt(500),
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "Ocak Aidatı",
		Category:    CategoryDues,
		ResidentID:  "r1",
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2024-01-01"`)

	var got Transaction
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.Type, got.Type)
	assert.True(t, orig.Amount.Equal(got.Amount))
	assert.True(t, orig.Date.Equal(got.Date))
}

func TestTransactionUnmarshalLegacy(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantType   TxType
		wantID     int64
		wantRes    string
		wantAmount string
	}{
		{
			name:       "legacy dues debt becomes accrual",
			input:      `{"id":1700000000000.5327,"residentId":42,"date":"2024-01-01","description":"Aidat","type":"debt","amount":500,"category":"Aidat"}`,
			wantType:   TxAccrual,
			wantID:     1700000000000,
			wantRes:    "42",
			wantAmount: "500",
		},
		{
			name:       "legacy plain debt becomes personal debt",
			input:      `{"id":3,"residentId":"r1","date":"2024-02-10","description":"Borç","type":"debt","amount":"120.50","category":"Diğer"}`,
			wantType:   TxPersonalDebt,
			wantID:     3,
			wantRes:    "r1",
			wantAmount: "120.5",
		},
		{
			name:       "expense flagged as debt becomes accrual",
			input:      `{"id":4,"date":"2024-03-01","description":"Aidat benzeri","type":"expense","isDebt":true,"amount":250,"category":"DİĞER"}`,
			wantType:   TxAccrual,
			wantID:     4,
			wantRes:    "",
			wantAmount: "250",
		},
		{
			name:       "malformed amount coerces to zero",
			input:      `{"id":5,"date":"2024-03-01","description":"Bozuk","type":"income","amount":"abc"}`,
			wantType:   TxIncome,
			wantID:     5,
			wantRes:    "",
			wantAmount: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tx Transaction
			require.NoError(t, json.Unmarshal([]byte(tt.input), &tx))
			assert.Equal(t, tt.wantType, tx.Type)
			assert.Equal(t, tt.wantID, tx.ID)
			assert.Equal(t, tt.wantRes, tx.ResidentID)
			assert.Equal(t, tt.wantAmount, tx.Amount.String())
		})
	}
}
