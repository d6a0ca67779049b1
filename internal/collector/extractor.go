package collector

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"NewsSentinel/internal/model"
)

// DefaultContainerID is the id of the news table on finviz quote pages.
const DefaultContainerID = "news-table"

var spaceRun = regexp.MustCompile(`[\n\t\r\s\x{00A0}]+`)

// RowExtractor pulls headline rows out of a fetched document.
type RowExtractor interface {
	Extract(doc *Document) ([]model.RawRow, error)
}

// TableExtractor reads the rows of the table element with a known id. Each row's title
// is the text of its first link and its timestamp the text of its first cell.
type TableExtractor struct {
	ContainerID string
}

// NewTableExtractor creates an extractor for the given container id.
func NewTableExtractor(containerID string) *TableExtractor {
	if containerID == "" {
		containerID = DefaultContainerID
	}
	return &TableExtractor{ContainerID: containerID}
}

// Extract returns the container's rows in document order. A document without the
// container yields no rows.
func (e *TableExtractor) Extract(doc *Document) ([]model.RawRow, error) {
	root, err := html.Parse(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.URL, err)
	}

	container := findByID(root, e.ContainerID)
	if container == nil {
		return nil, nil
	}

	var rows []model.RawRow
	for _, tr := range tableRows(container) {
		rows = append(rows, model.RawRow{
			Title:     cleanText(firstText(tr, "a")),
			Timestamp: cleanText(firstText(tr, "td")),
		})
	}
	return rows, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// tableRows collects the rows that belong to container itself, looking through
// thead/tbody/tfoot but not into nested tables.
func tableRows(container *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				rows = append(rows, c)
			case "thead", "tbody", "tfoot":
				walk(c)
			}
		}
	}
	walk(container)
	return rows
}

// firstText returns the text of the first descendant element named tag, or "".
func firstText(n *html.Node, tag string) string {
	var found *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				found = c
				return
			}
			find(c)
		}
	}
	find(n)
	if found == nil {
		return ""
	}
	return extractText(found)
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
	}
	return sb.String()
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
