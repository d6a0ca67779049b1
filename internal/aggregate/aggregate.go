/*
Package aggregate computes the mean compound score per ticker and calendar day.

A (ticker, date) key exists in a Table only if at least one record contributed to it,
so "no headlines that day" stays distinguishable from "neutral that day".
*/
package aggregate

import (
	"sort"

	"NewsSentinel/internal/model"
)

// Key identifies one cell of the ticker × date table.
type Key struct {
	Ticker model.Ticker
	Date   model.Date
}

type accumulator struct {
	sum   float64
	count int
}

// Aggregator accumulates running sums and counts per key. Not safe for concurrent use.
type Aggregator struct {
	acc map[Key]*accumulator
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{acc: make(map[Key]*accumulator)}
}

// Add folds one record into its (ticker, date) group.
func (a *Aggregator) Add(r model.AnnotatedRecord) {
	k := Key{Ticker: r.Ticker, Date: r.Date}
	acc, ok := a.acc[k]
	if !ok {
		acc = &accumulator{}
		a.acc[k] = acc
	}
	acc.sum += r.Compound
	acc.count++
}

// Table finalizes the running sums into means.
func (a *Aggregator) Table() *Table {
	t := &Table{
		means:  make(map[Key]float64, len(a.acc)),
		counts: make(map[Key]int, len(a.acc)),
	}
	for k, acc := range a.acc {
		mean := acc.sum / float64(acc.count)
		// Guard against rounding drift past the bounds of the inputs.
		if mean > 1 {
			mean = 1
		} else if mean < -1 {
			mean = -1
		}
		t.means[k] = mean
		t.counts[k] = acc.count
	}
	return t
}

// Aggregate groups records by (ticker, date) and returns their means.
func Aggregate(records []model.AnnotatedRecord) *Table {
	a := NewAggregator()
	for _, r := range records {
		a.Add(r)
	}
	return a.Table()
}

// Entry is one populated cell of a Table.
type Entry struct {
	Key
	Mean  float64
	Count int
}

// Table maps (ticker, date) to a mean compound score. Tickers order lexicographically
// and dates chronologically.
type Table struct {
	means  map[Key]float64
	counts map[Key]int
}

// Get returns the mean for (ticker, date) and whether any headline contributed to it.
func (t *Table) Get(ticker model.Ticker, date model.Date) (float64, bool) {
	v, ok := t.means[Key{Ticker: ticker, Date: date}]
	return v, ok
}

// Count returns how many headlines contributed to k.
func (t *Table) Count(k Key) int { return t.counts[k] }

// Len returns the number of populated cells.
func (t *Table) Len() int { return len(t.means) }

// Tickers returns every ticker with at least one cell, sorted lexicographically.
func (t *Table) Tickers() []model.Ticker {
	seen := make(map[model.Ticker]struct{})
	for k := range t.means {
		seen[k.Ticker] = struct{}{}
	}
	out := make([]model.Ticker, 0, len(seen))
	for tk := range seen {
		out = append(out, tk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dates returns every date with at least one cell, oldest first.
func (t *Table) Dates() []model.Date {
	seen := make(map[model.Date]struct{})
	for k := range t.means {
		seen[k.Date] = struct{}{}
	}
	out := make([]model.Date, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Entries returns all populated cells ordered by ticker, then date.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.means))
	for k, v := range t.means {
		out = append(out, Entry{Key: k, Mean: v, Count: t.counts[k]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
