package symbols

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "AAPL,MSFT", []string{"AAPL", "MSFT"}},
		{"normalizes case and spacing", " aapl , msft ", []string{"AAPL", "MSFT"}},
		{"drops empty entries", "AAPL,,MSFT,", []string{"AAPL", "MSFT"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ParseList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	content := "# tech\naapl\nMSFT\n\n# finance\nbrk.b\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	syms, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	want := []string{"AAPL", "MSFT", "BRK.B"}
	if len(syms) != len(want) {
		t.Fatalf("LoadFile() = %v, want %v", syms, want)
	}
	for i := range want {
		if syms[i] != want[i] {
			t.Errorf("syms[%d] = %q, want %q", i, syms[i], want[i])
		}
	}
}

func TestLoadFile_InvalidSymbol(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	if err := os.WriteFile(path, []byte("AAPL\n123BAD\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for invalid symbol")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		sym  string
		want bool
	}{
		{"AAPL", true},
		{"V", true},
		{"BRK.B", true},
		{"GOOGL", true},
		{"", false},
		{"TOOLONG", false},
		{"BRK.BB", false},
		{"AB1", false},
		{"A/B", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.sym); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.sym, got, tt.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	for _, sym := range Defaults() {
		if !IsValid(sym) {
			t.Errorf("default symbol %q is invalid", sym)
		}
	}
}
