package turkish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain ascii without i",
			input: "mehmet kaya",
			want:  "MEHMET KAYA",
		},
		{
			name:  "ascii i follows the locale rule",
			input: "ahmet yilmaz",
			want:  "AHMET YİLMAZ",
		},
		{
			name:  "dotted i folds to dotted capital",
			input: "ihsan dinç",
			want:  "İHSAN DİNÇ",
		},
		{
			name:  "dotless i folds to plain capital",
			input: "ılgın",
			want:  "ILGIN",
		},
		{
			name:  "full accented set",
			input: "çğöşü",
			want:  "ÇĞÖŞÜ",
		},
		{
			name:  "already uppercase unchanged",
			input: "SEÇKİN ALAGÖZ",
			want:  "SEÇKİN ALAGÖZ",
		},
		{
			name:  "digits and punctuation pass through",
			input: "daire 14 - no.3",
			want:  "DAİRE 14 - NO.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Upper(tt.input))
		})
	}
}

func TestDotless(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase dotted i",
			input: "ahmet yilmaz",
			want:  "AHMET YILMAZ",
		},
		{
			name:  "uppercase dotted capital",
			input: "İHSAN DİNÇ",
			want:  "IHSAN DINÇ",
		},
		{
			name:  "dotless i already plain",
			input: "ılgın",
			want:  "ILGIN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dotless(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips interior whitespace",
			input: "Zekeriya Boynuuzun",
			want:  "ZEKERIYABOYNUUZUN",
		},
		{
			name:  "tabs and newlines stripped too",
			input: "ahmet\tyilmaz\n",
			want:  "AHMETYILMAZ",
		},
		{
			name:  "case variants fold to the same key",
			input: "AHMET YILMAZ",
			want:  "AHMETYILMAZ",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestFoldCaseVariantsCollide(t *testing.T) {
	// The merge and dedup keys depend on every casing of the same name
	// producing an identical fold, regardless of how i was dotted.
	assert.Equal(t, Fold("ahmet yilmaz"), Fold("AHMET YILMAZ"))
	assert.Equal(t, Fold("Ahmet Yılmaz"), Fold("AHMET YILMAZ"))
	assert.Equal(t, Fold("ihsan dinç"), Fold("İHSAN DİNÇ"))
	assert.Equal(t, Fold("İHSAN DİNÇ"), Fold("IHSAN DINÇ"))
}
