package model

// CategoryDues is the recurring-charge category for monthly dues.
const CategoryDues = "Aidat"

// CategoryOther is the catch-all expense bucket. It is the only
// category for which SubCategory carries meaning.
const CategoryOther = "DİĞER"

// ExpenseCategories is the fixed expense classification list offered
// during import review.
var ExpenseCategories = []string{
	"PERSONEL MAAŞ",
	"PERSONEL SGK",
	"ELEKTRİK",
	"SU",
	"ASANSÖR BAKIM",
	"TEMİZLİK",
	"BAHÇE PEYZAJ",
	"BAKIM ONARIM",
	"YÖNETİM KIRTASİYE",
	"BÖCEK İLAÇLAMA",
	CategoryOther,
}

// ValidExpenseCategory reports whether name is one of the fixed
// expense categories.
func ValidExpenseCategory(name string) bool {
	for _, c := range ExpenseCategories {
		if c == name {
			return true
		}
	}
	return false
}
