package timeouts

import (
	"testing"
	"time"
)

func TestMillis(t *testing.T) {
	if got := Millis(SQLiteBusy); got != 5000 {
		t.Fatalf("busy millis = %d, want 5000", got)
	}
	if got := Millis(1500 * time.Microsecond); got != 1 {
		t.Fatalf("millis = %d, want 1", got)
	}
}
