package model

import (
	"testing"
	"time"
)

func TestDate_Compare(t *testing.T) {
	tests := []struct {
		a, b Date
		want int
	}{
		{Date{2024, time.January, 1}, Date{2024, time.January, 1}, 0},
		{Date{2024, time.January, 1}, Date{2024, time.January, 2}, -1},
		{Date{2024, time.February, 1}, Date{2024, time.January, 31}, 1},
		{Date{2023, time.December, 31}, Date{2024, time.January, 1}, -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s vs %s: expected %d, got %d", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestDateOf_UsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 02:00 UTC on Jan 2 is still Jan 1 in New York.
	ts := time.Date(2024, time.January, 2, 2, 0, 0, 0, time.UTC).In(ny)
	if got := DateOf(ts); got != (Date{2024, time.January, 1}) {
		t.Errorf("expected 2024-01-01, got %s", got)
	}
}

func TestDate_String(t *testing.T) {
	d := Date{2024, time.March, 7}
	if d.String() != "2024-03-07" {
		t.Errorf("expected 2024-03-07, got %s", d.String())
	}
	if !(Date{}).IsZero() {
		t.Error("expected zero date to report IsZero")
	}
}
