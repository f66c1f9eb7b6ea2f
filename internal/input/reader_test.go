package input

import (
	"io"
	"testing"
)

func TestStringReader(t *testing.T) {
	t.Run("returns inputs in order", func(t *testing.T) {
		r := NewStringReader("first\n", "second\n")

		s, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}
		if s != "first\n" {
			t.Errorf("expected first, got %q", s)
		}

		s, err = r.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}
		if s != "second\n" {
			t.Errorf("expected second, got %q", s)
		}
	})

	t.Run("EOF when exhausted", func(t *testing.T) {
		r := NewStringReader("only\n")
		_, _ = r.ReadString('\n')

		_, err := r.ReadString('\n')
		if err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase", "YES\n", true},
		{"whitespace", "  y  \n", true},
		{"no", "no\n", false},
		{"empty line", "\n", false},
		{"garbage", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confirm(NewStringReader(tt.input)); got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("EOF refuses", func(t *testing.T) {
		if Confirm(NewStringReader()) {
			t.Error("Confirm on EOF should be false")
		}
	})
}
