package encoding

import "testing"

func TestCanonicalJSONSortsKeys(t *testing.T) {
	got, err := CanonicalJSON(map[string]any{
		"outs":   2,
		"bases":  map[string]any{"third": nil, "first": "Ruth"},
		"inning": 9,
	})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	want := `{"bases":{"first":"Ruth","third":null},"inning":9,"outs":2}`
	if string(got) != want {
		t.Fatalf("canonical = %s, want %s", got, want)
	}
}

func TestCanonicalJSONStructFieldOrderIndependent(t *testing.T) {
	type a struct {
		Z int `json:"z"`
		A int `json:"a"`
	}
	type b struct {
		A int `json:"a"`
		Z int `json:"z"`
	}
	left, err := CanonicalJSON(a{Z: 1, A: 2})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	right, err := CanonicalJSON(b{A: 2, Z: 1})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(left) != string(right) {
		t.Fatalf("canonical mismatch: %s vs %s", left, right)
	}
}

func TestCanonicalJSONKeepsLargeIntegers(t *testing.T) {
	got, err := CanonicalJSON(map[string]int64{"seed": 9007199254740993})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(got) != `{"seed":9007199254740993}` {
		t.Fatalf("canonical = %s", got)
	}
}

func TestCanonicalJSONNoHTMLEscape(t *testing.T) {
	got, err := CanonicalJSON(map[string]string{"event": "<b>Outs: 3</b> & done"})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(got) != `{"event":"<b>Outs: 3</b> & done"}` {
		t.Fatalf("canonical = %s", got)
	}
}

func TestContentHashStable(t *testing.T) {
	first, err := ContentHash(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := ContentHash(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first != second {
		t.Fatalf("hash mismatch: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("hash length = %d, want 64", len(first))
	}
}
