/*
Package timestamp turns the timestamp cell of a headline row into a calendar date and a
time of day.

Sources print the full date only on the first headline of each day and a bare time on
the rows that follow, so rows must be normalized in document order with the last seen
date carried forward. The carried date lives in an Anchor value owned by the caller;
nothing is shared between sequences.
*/
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"NewsSentinel/internal/model"
)

var (
	// ErrMissingDateAnchor is returned when a time-only fragment appears before any date.
	ErrMissingDateAnchor = errors.New("time-only timestamp with no preceding date")
	// ErrMalformedRow marks a single fragment that cannot be normalized.
	ErrMalformedRow = errors.New("malformed row")
)

// DefaultDateLayouts are tried in order for the date token.
var DefaultDateLayouts = []string{"Jan-02-06", "Jan-02-2006", "2006-01-02", "01/02/2006"}

var timeLayouts = []string{"3:04PM", "03:04PM", "15:04"}

// Stamp is one normalized timestamp.
type Stamp struct {
	Date model.Date
	Time *model.TimeOfDay
}

// Anchor carries the most recent explicit date through one row sequence.
// The zero value has no date.
type Anchor struct {
	date model.Date
	set  bool
}

// Date returns the carried date and whether one has been seen.
func (a Anchor) Date() (model.Date, bool) { return a.date, a.set }

// Outcome is the result for one fragment of a sequence.
type Outcome struct {
	Stamp Stamp
	Err   error // wraps ErrMalformedRow when set
}

// Normalizer parses timestamp fragments. It holds no per-sequence state and is safe
// for concurrent use.
type Normalizer struct {
	DateLayouts []string
	Location    *time.Location
	Now         func() time.Time
}

// NewNormalizer creates a Normalizer resolving relative dates in loc.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		DateLayouts: DefaultDateLayouts,
		Location:    loc,
		Now:         time.Now,
	}
}

// Step normalizes one fragment given the anchor left by the previous fragment and
// returns the anchor for the next one. On a malformed fragment the anchor is returned
// unchanged.
func (n *Normalizer) Step(anchor Anchor, fragment string) (Stamp, Anchor, error) {
	tokens := strings.Fields(fragment)
	switch len(tokens) {
	case 1:
		if !anchor.set {
			return Stamp{}, anchor, ErrMissingDateAnchor
		}
		tod, err := parseTimeOfDay(tokens[0])
		if err != nil {
			return Stamp{}, anchor, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		return Stamp{Date: anchor.date, Time: &tod}, anchor, nil
	case 2:
		date, err := n.parseDate(tokens[0])
		if err != nil {
			return Stamp{}, anchor, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		tod, err := parseTimeOfDay(tokens[1])
		if err != nil {
			return Stamp{}, anchor, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		return Stamp{Date: date, Time: &tod}, Anchor{date: date, set: true}, nil
	default:
		return Stamp{}, anchor, fmt.Errorf("%w: timestamp %q has %d tokens", ErrMalformedRow, fragment, len(tokens))
	}
}

// Normalize runs Step over a whole sequence in order. Malformed fragments are reported
// in their Outcome and skipped. A missing anchor rejects the entire sequence.
func (n *Normalizer) Normalize(fragments []string) ([]Outcome, error) {
	out := make([]Outcome, len(fragments))
	var anchor Anchor
	for i, frag := range fragments {
		stamp, next, err := n.Step(anchor, frag)
		if errors.Is(err, ErrMissingDateAnchor) {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = Outcome{Stamp: stamp, Err: err}
		anchor = next
	}
	return out, nil
}

func (n *Normalizer) parseDate(token string) (model.Date, error) {
	switch strings.ToLower(token) {
	case "today":
		return model.DateOf(n.now()), nil
	case "yesterday":
		return model.DateOf(n.now().AddDate(0, 0, -1)), nil
	}
	layouts := n.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, token); err == nil {
			return model.DateOf(t), nil
		}
	}
	return model.Date{}, fmt.Errorf("unrecognized date %q", token)
}

func (n *Normalizer) now() time.Time {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

func parseTimeOfDay(token string) (model.TimeOfDay, error) {
	upper := strings.ToUpper(token)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return model.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return model.TimeOfDay{}, fmt.Errorf("unrecognized time %q", token)
}
