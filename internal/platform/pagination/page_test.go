package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 50, Max: 200}
	tests := []struct {
		in   int
		want int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{500, 200},
	}
	for _, tc := range tests {
		if got := ClampPageSize(tc.in, cfg); got != tc.want {
			t.Fatalf("ClampPageSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize with empty config = %d, want 1", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor(42)
	got, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 42 {
		t.Fatalf("cursor = %d, want 42", got)
	}
	if got, err := DecodeCursor(""); err != nil || got != 0 {
		t.Fatalf("empty cursor = %d, %v", got, err)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"nope", "42", EncodeCursor(-1), "%%%"} {
		if _, err := DecodeCursor(token); err == nil {
			t.Fatalf("expected error for %q", token)
		}
	}
}
