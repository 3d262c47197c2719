// Package importer converts raw statement rows from unreliable sources
// (spreadsheet exports, AI-extracted JSON) into candidate transactions.
// It assumes neither source is schema-correct: a bad row is skipped or
// defaulted, never allowed to abort the batch.
package importer

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/model"
)

// ShapedRow is a pre-shaped transaction-like object, typically from
// the AI extraction collaborator. All fields are raw strings; the
// normalizer owns interpretation.
type ShapedRow struct {
	Date        string
	Description string
	Amount      string
	Type        string
	ApartmentNo string
}

// RawRow is one heterogeneous input row: either ordered spreadsheet
// cells (date, description, amount[, apartment]) or a shaped object.
type RawRow struct {
	Shaped *ShapedRow
	Cells  []string
}

// Normalize converts raw rows into candidates. Rows with an
// unparseable amount are dropped - a missing amount is not a valid
// transaction. Rows with an unparseable date default to today.
func Normalize(rows []RawRow, today time.Time) []model.Candidate {
	today = midnight(today)
	out := make([]model.Candidate, 0, len(rows))

	for i, row := range rows {
		c, ok := normalizeRow(row, today)
		if !ok {
			slog.Warn("Skipping unusable import row", "row", i)
			continue
		}
		out = append(out, c)
	}
	return out
}

func normalizeRow(row RawRow, today time.Time) (model.Candidate, bool) {
	var dateRaw, desc, amountRaw, hint, typeRaw string

	switch {
	case row.Shaped != nil:
		dateRaw = row.Shaped.Date
		desc = row.Shaped.Description
		amountRaw = row.Shaped.Amount
		hint = row.Shaped.ApartmentNo
		typeRaw = row.Shaped.Type
	case len(row.Cells) >= 3:
		dateRaw = row.Cells[0]
		desc = row.Cells[1]
		amountRaw = row.Cells[2]
		if len(row.Cells) > 3 {
			hint = row.Cells[3]
		}
	default:
		return model.Candidate{}, false
	}

	amount, err := ParseAmount(amountRaw)
	if err != nil {
		return model.Candidate{}, false
	}

	// Sign heuristic only: negative means money out. The reviewer
	// corrects this, it is never treated as ground truth.
	txType := model.TxIncome
	if amount.IsNegative() {
		txType = model.TxExpense
		amount = amount.Abs()
	}
	if amount.IsZero() {
		return model.Candidate{}, false
	}
	switch typeRaw {
	case "expense":
		txType = model.TxExpense
	case "income":
		txType = model.TxIncome
	}

	date, err := ParseDate(dateRaw)
	if err != nil {
		slog.Warn("Unparseable row date, defaulting to today", "value", dateRaw)
		date = today
	}

	category := ""
	if txType == model.TxExpense {
		category = model.CategoryOther
	}

	return model.Candidate{
		Type:          txType,
		Amount:        amount,
		Date:          date,
		Description:   strings.TrimSpace(desc),
		Category:      category,
		ApartmentHint: strings.TrimSpace(hint),
	}, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// excelEpochOffset is the day count between the spreadsheet serial
// epoch (1899-12-30) and the unix epoch.
const excelEpochOffset = 25569

// ParseDate interprets a raw date cell: a localized DD.MM.YYYY string,
// an ISO calendar date, or a spreadsheet serial day number.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	if parts := strings.Split(s, "."); len(parts) == 3 {
		if d, err := time.ParseInLocation("2.1.2006", s, time.UTC); err == nil {
			return d, nil
		}
	}
	if d, err := time.ParseInLocation(model.DateLayout, s, time.UTC); err == nil {
		return d, nil
	}
	if d, err := time.ParseInLocation("2/1/2006", s, time.UTC); err == nil {
		return d, nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		unixDays := int64(serial) - excelEpochOffset
		d := time.Unix(unixDays*86400, 0).UTC()
		return midnight(d), nil
	}

	return time.Time{}, &common.ParseError{Field: "date", Value: raw}
}

// ParseAmount strips currency symbols and locale separators and
// returns a canonical decimal. The sign is preserved.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &common.ParseError{Field: "amount", Value: raw}
	}

	// Keep digits, separators and sign; drop currency symbols and
	// whitespace.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the rightmost is the decimal separator, the
		// other marks thousands.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			// Repeated commas are thousands separators.
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &common.ParseError{Field: "amount", Value: raw}
	}
	return amount, nil
}
