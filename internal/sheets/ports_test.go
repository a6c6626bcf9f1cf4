package sheets

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTabTitle(t *testing.T) {
	tests := []struct {
		prefix, file, want string
	}{
		{"", "SP_Campinas_Escola_20250314.csv", "SP_Campinas_Escola_20250314"},
		{"Relatorios", "medicoes_20250314.csv", "Relatorios medicoes_20250314"},
		{"  ", "a.csv", "a"},
	}
	for _, tt := range tests {
		if got := TabTitle(tt.prefix, tt.file); got != tt.want {
			t.Errorf("TabTitle(%q, %q) = %q, want %q", tt.prefix, tt.file, got, tt.want)
		}
	}

	long := TabTitle("Relatorios", strings.Repeat("ç", 150)+".csv")
	if n := utf8.RuneCountInString(long); n != MaxTitleLength {
		t.Errorf("expected %d runes, got %d", MaxTitleLength, n)
	}
	if !utf8.ValidString(long) {
		t.Errorf("truncation must not split runes")
	}
}
