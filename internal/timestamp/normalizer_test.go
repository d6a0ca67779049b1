package timestamp

import (
	"errors"
	"testing"
	"time"

	"NewsSentinel/internal/model"
)

func fixedNormalizer() *Normalizer {
	n := NewNormalizer(time.UTC)
	n.Now = func() time.Time { return time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC) }
	return n
}

func TestNormalize_CarriesDateForward(t *testing.T) {
	n := fixedNormalizer()
	out, err := n.Normalize([]string{"Jan-01-24 10:00AM", "10:30AM", "Jan-02-24 09:00AM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Date{
		{Year: 2024, Month: time.January, Day: 1},
		{Year: 2024, Month: time.January, Day: 1},
		{Year: 2024, Month: time.January, Day: 2},
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d outcomes, got %d", len(want), len(out))
	}
	for i, o := range out {
		if o.Err != nil {
			t.Errorf("row %d: unexpected error %v", i, o.Err)
		}
		if o.Stamp.Date != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], o.Stamp.Date)
		}
	}
	if got := *out[1].Stamp.Time; got != (model.TimeOfDay{Hour: 10, Minute: 30}) {
		t.Errorf("expected 10:30, got %s", got)
	}
}

func TestNormalize_MissingDateAnchor(t *testing.T) {
	n := fixedNormalizer()
	out, err := n.Normalize([]string{"10:00AM", "Jan-01-24 11:00AM"})
	if !errors.Is(err, ErrMissingDateAnchor) {
		t.Fatalf("expected ErrMissingDateAnchor, got %v", err)
	}
	if out != nil {
		t.Errorf("expected no partial output, got %d outcomes", len(out))
	}
}

func TestNormalize_MalformedRowsAreReported(t *testing.T) {
	n := fixedNormalizer()
	out, err := n.Normalize([]string{
		"Jan-01-24 09:00AM",
		"",
		"Jan-01-24 09:00AM extra",
		"Foo-99-24 10:00AM",
		"25:99",
		"11:15AM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, i := range []int{1, 2, 3, 4} {
		if !errors.Is(out[i].Err, ErrMalformedRow) {
			t.Errorf("row %d: expected ErrMalformedRow, got %v", i, out[i].Err)
		}
	}
	// A malformed date must not move the anchor.
	last := out[5]
	if last.Err != nil {
		t.Fatalf("row 5: unexpected error %v", last.Err)
	}
	if last.Stamp.Date != (model.Date{Year: 2024, Month: time.January, Day: 1}) {
		t.Errorf("expected anchor 2024-01-01, got %s", last.Stamp.Date)
	}
}

func TestNormalize_MalformedBeforeAnchorStillRejectsSequence(t *testing.T) {
	n := fixedNormalizer()
	_, err := n.Normalize([]string{"Bad-Date 10:00AM", "10:30AM"})
	if !errors.Is(err, ErrMissingDateAnchor) {
		t.Fatalf("expected ErrMissingDateAnchor, got %v", err)
	}
}

func TestStep_RelativeDates(t *testing.T) {
	n := fixedNormalizer()
	tests := []struct {
		fragment string
		want     model.Date
	}{
		{"Today 09:30AM", model.Date{Year: 2024, Month: time.March, Day: 5}},
		{"Yesterday 04:00PM", model.Date{Year: 2024, Month: time.March, Day: 4}},
	}
	for _, tt := range tests {
		stamp, anchor, err := n.Step(Anchor{}, tt.fragment)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.fragment, err)
			continue
		}
		if stamp.Date != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.fragment, tt.want, stamp.Date)
		}
		if d, ok := anchor.Date(); !ok || d != tt.want {
			t.Errorf("%q: expected anchor %s, got %s (set=%v)", tt.fragment, tt.want, d, ok)
		}
	}
}

func TestStep_DateLayouts(t *testing.T) {
	n := fixedNormalizer()
	want := model.Date{Year: 2024, Month: time.January, Day: 1}
	for _, frag := range []string{"Jan-01-24 10:00AM", "Jan-01-2024 10:00am", "2024-01-01 10:00", "01/01/2024 22:15"} {
		stamp, _, err := n.Step(Anchor{}, frag)
		if err != nil {
			t.Errorf("%q: unexpected error %v", frag, err)
			continue
		}
		if stamp.Date != want {
			t.Errorf("%q: expected %s, got %s", frag, want, stamp.Date)
		}
	}
}

func TestStep_PMTime(t *testing.T) {
	n := fixedNormalizer()
	stamp, _, err := n.Step(Anchor{}, "Jan-01-24  04:05PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *stamp.Time != (model.TimeOfDay{Hour: 16, Minute: 5}) {
		t.Errorf("expected 16:05, got %s", stamp.Time)
	}
}

func TestNormalize_IndependentSequences(t *testing.T) {
	n := fixedNormalizer()
	if _, err := n.Normalize([]string{"Jan-01-24 10:00AM"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A fresh sequence must not inherit the previous one's date.
	if _, err := n.Normalize([]string{"10:30AM"}); !errors.Is(err, ErrMissingDateAnchor) {
		t.Errorf("expected ErrMissingDateAnchor, got %v", err)
	}
}
