package model

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date form used in persisted
// records and duplicate keys.
const DateLayout = "2006-01-02"

// MarshalJSON writes the date as a plain calendar date.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(t), t.Date.Format(DateLayout)})
}

// UnmarshalJSON tolerates records written by earlier versions of the
// system: fractional IDs, numeric resident references, amounts as
// numbers or strings, and the old stringly type field with its isDebt
// flag. A malformed amount coerces to zero with a warning instead of
// failing the whole record.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	aux := struct {
		*alias
		Date       string          `json:"date"`
		ID         json.Number     `json:"id"`
		ResidentID json.RawMessage `json:"residentId"`
		Amount     json.RawMessage `json:"amount"`
		Type       string          `json:"type"`
		IsDebt     bool            `json:"isDebt"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.Date = parseRecordDate(aux.Date)
	t.ID = numberToID(aux.ID)
	t.ResidentID = rawToString(aux.ResidentID)
	t.Amount = lenientAmount(aux.Amount)
	t.Type = normalizeType(aux.Type, t.Category, aux.IsDebt)
	return nil
}

func parseRecordDate(s string) time.Time {
	if d, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return d
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d.UTC().Truncate(24 * time.Hour)
	}
	return time.Time{}
}

// numberToID truncates fractional legacy IDs (timestamp + random
// fraction) to their integer part.
func numberToID(n json.Number) int64 {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

func rawToString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}

func lenientAmount(raw json.RawMessage) decimal.Decimal {
	s := rawToString(raw)
	if s == "" {
		return decimal.Zero
	}
	amt, err := decimal.NewFromString(s)
	if err != nil {
		slog.Warn("Malformed transaction amount coerced to zero", "value", s)
		return decimal.Zero
	}
	return amt
}

// normalizeType maps the legacy stringly type plus auxiliary flags onto
// the closed TxType set. Old records use "debt" for both dues accruals
// (category Aidat) and personal debts, and occasionally an expense with
// isDebt set for a dues charge.
func normalizeType(s, category string, isDebt bool) TxType {
	switch TxType(s) {
	case TxIncome, TxExpense, TxPersonalDebt, TxAccrual:
		if TxType(s) == TxExpense && (isDebt || category == CategoryDues) {
			return TxAccrual
		}
		return TxType(s)
	}
	switch s {
	case "debt":
		if category == CategoryDues {
			return TxAccrual
		}
		return TxPersonalDebt
	case "income":
		return TxIncome
	}
	if isDebt {
		return TxAccrual
	}
	return TxExpense
}
