package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"NewsSentinel/internal/pipeline"
)

// EmailRenderer renders run reports as HTML emails with a plain text fallback.
type EmailRenderer struct {
	tmpl *template.Template
}

// NewEmailRenderer creates a renderer with the default email template.
func NewEmailRenderer() *EmailRenderer {
	t := template.Must(template.New("email").Parse(emailHTMLTemplate))
	return &EmailRenderer{tmpl: t}
}

type emailRow struct {
	Ticker string
	Date   string
	Mean   string
	Count  int
	Class  string
}

type emailFailure struct {
	Ticker string
	Stage  string
	Error  string
}

type emailData struct {
	RunID     string
	Finished  string
	Tickers   int
	Headlines int
	Malformed int
	Rows      []emailRow
	Failures  []emailFailure
}

func newEmailData(res *pipeline.Result) emailData {
	data := emailData{
		RunID:     res.RunID,
		Finished:  res.FinishedAt.Format("02 Jan 2006 3:04 PM"),
		Tickers:   len(res.Tickers),
		Headlines: len(res.Records),
		Malformed: len(res.Malformed),
	}
	if res.Table != nil {
		for _, e := range res.Table.Entries() {
			class := "neutral"
			if e.Mean > 0.05 {
				class = "positive"
			} else if e.Mean < -0.05 {
				class = "negative"
			}
			data.Rows = append(data.Rows, emailRow{
				Ticker: string(e.Ticker),
				Date:   e.Date.String(),
				Mean:   fmt.Sprintf("%+.3f", e.Mean),
				Count:  e.Count,
				Class:  class,
			})
		}
	}
	for _, f := range res.Failures {
		data.Failures = append(data.Failures, emailFailure{
			Ticker: string(f.Ticker),
			Stage:  string(f.Stage),
			Error:  f.Err.Error(),
		})
	}
	return data
}

// Render produces an HTML email with plain text alternative.
func (r *EmailRenderer) Render(res *pipeline.Result) (*RenderedMessage, error) {
	data := newEmailData(res)
	subject := fmt.Sprintf("NewsSentinel: %d tickers, %d headlines (%s)", data.Tickers, data.Headlines, data.Finished)

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(data),
		HTML:    htmlBuf.String(),
	}, nil
}

func renderPlainText(data emailData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Headline sentiment - %s\n", data.Finished))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Tickers: %d\nHeadlines: %d\nMalformed rows: %d\n\n", data.Tickers, data.Headlines, data.Malformed))

	if len(data.Rows) == 0 {
		sb.WriteString("No headlines collected.\n\n")
	} else {
		sb.WriteString("MEAN DAILY SENTIMENT\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, r := range data.Rows {
			sb.WriteString(fmt.Sprintf("%-8s %s %s (%d)\n", r.Ticker, r.Date, r.Mean, r.Count))
		}
		sb.WriteString("\n")
	}

	if len(data.Failures) > 0 {
		sb.WriteString("SKIPPED TICKERS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, f := range data.Failures {
			sb.WriteString(fmt.Sprintf("• %s [%s] %s\n", f.Ticker, f.Stage, f.Error))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Run " + data.RunID + "\n")
	return sb.String()
}
