package model

// Ticker identifies a tracked symbol. It is only ever compared for equality.
type Ticker string

// RawRow is one news row as it appears in a source document.
type RawRow struct {
	Title     string
	Timestamp string // "Jan-01-24 09:00AM" or "09:00AM"
}

// HeadlineRecord is one normalized headline for a ticker.
type HeadlineRecord struct {
	Ticker Ticker
	Date   Date
	Time   *TimeOfDay // nil when the source gave no usable time
	Title  string
}

// AnnotatedRecord is a HeadlineRecord with its compound sentiment score.
type AnnotatedRecord struct {
	HeadlineRecord
	Compound float64 // -1.0 ~ 1.0
}
