package collector

import (
	"testing"

	"NewsSentinel/internal/model"
)

func TestTableExtractor_RowsInDocumentOrder(t *testing.T) {
	e := NewTableExtractor("")
	rows, err := e.Extract(&Document{Ticker: "AMZN", Body: []byte(newsPage)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.RawRow{
		{Title: "Amazon beats expectations", Timestamp: "Jan-01-24 09:00AM"},
		{Title: "Amazon faces lawsuit", Timestamp: "10:00AM"},
		{Title: "Amazon expands logistics network", Timestamp: "Jan-02-24 08:15AM"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(rows), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestTableExtractor_MissingContainer(t *testing.T) {
	e := NewTableExtractor("news-table")
	rows, err := e.Extract(&Document{Body: []byte(`<html><body><p>blocked</p></body></html>`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestTableExtractor_IgnoresNestedTables(t *testing.T) {
	page := `<table id="news-table">
<tr><td>Jan-03-24 07:00AM</td><td><a>Outer</a><table><tr><td>inner</td></tr></table></td></tr>
</table>`
	rows, err := NewTableExtractor("news-table").Extract(&Document{Body: []byte(page)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Title != "Outer" {
		t.Errorf("expected title Outer, got %q", rows[0].Title)
	}
}

func TestTableExtractor_RowWithoutLink(t *testing.T) {
	page := `<table id="news-table"><tr><td>Jan-03-24 07:00AM</td><td>no link here</td></tr></table>`
	rows, err := NewTableExtractor("").Extract(&Document{Body: []byte(page)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "" {
		t.Errorf("expected one row with empty title, got %+v", rows)
	}
}
