package importer

import (
	"strings"

	"github.com/syaprakli/bina-yonetim/internal/turkish"
)

// ColumnMap locates the date, description and amount columns in a
// spreadsheet export. An index of -1 means the column was not found.
type ColumnMap struct {
	Date        int
	Description int
	Amount      int
	Apartment   int
}

var columnHints = map[string][]string{
	"date":      {"TARİH", "TARIH", "DATE"},
	"desc":      {"AÇIKLAMA", "DESC", "İŞLEM", "ISLEM"},
	"amount":    {"TUTAR", "AMOUNT", "BORÇ", "BORC", "ALACAK"},
	"apartment": {"DAİRE", "DAIRE", "KAPI", "APARTMENT", "APT"},
}

func findColumn(header []string, hints []string) int {
	for i, cell := range header {
		folded := turkish.Upper(strings.TrimSpace(cell))
		for _, hint := range hints {
			if strings.Contains(folded, hint) {
				return i
			}
		}
	}
	return -1
}

// MapColumns inspects a header row. When the three required columns
// cannot all be located, callers fall back to positional order.
func MapColumns(header []string) (ColumnMap, bool) {
	m := ColumnMap{
		Date:        findColumn(header, columnHints["date"]),
		Description: findColumn(header, columnHints["desc"]),
		Amount:      findColumn(header, columnHints["amount"]),
		Apartment:   findColumn(header, columnHints["apartment"]),
	}
	ok := m.Date >= 0 && m.Description >= 0 && m.Amount >= 0
	return m, ok
}

// RowsFromRecords turns CSV records into raw rows. When the first
// record looks like a header its column mapping is applied; otherwise
// every record is consumed positionally as date, description, amount.
func RowsFromRecords(records [][]string) []RawRow {
	if len(records) == 0 {
		return nil
	}

	start := 0
	m := ColumnMap{Date: 0, Description: 1, Amount: 2, Apartment: -1}
	if mapped, ok := MapColumns(records[0]); ok {
		m = mapped
		start = 1
	}

	rows := make([]RawRow, 0, len(records)-start)
	for _, rec := range records[start:] {
		cell := func(idx int) string {
			if idx >= 0 && idx < len(rec) {
				return rec[idx]
			}
			return ""
		}
		cells := []string{cell(m.Date), cell(m.Description), cell(m.Amount)}
		if m.Apartment >= 0 {
			cells = append(cells, cell(m.Apartment))
		}
		rows = append(rows, RawRow{Cells: cells})
	}
	return rows
}
