package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"NewsSentinel/internal/collector"
	"NewsSentinel/internal/pipeline"
)

// maxMessageLen keeps reports under Telegram's 4096 character limit.
const maxMessageLen = 4000

// FormatReport formats a finished run as a Telegram HTML message.
func FormatReport(res *pipeline.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📰 <b>NewsSentinel</b> | %s\n\n", res.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Tickers: %d | Headlines: %d | Malformed: %d\n\n",
		len(res.Tickers), len(res.Records), len(res.Malformed)))

	if res.Table == nil || res.Table.Len() == 0 {
		b.WriteString("No headlines collected.\n")
	} else {
		b.WriteString("📈 <b>Mean daily sentiment:</b>\n")
		for _, ticker := range res.Table.Tickers() {
			b.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(string(ticker))))
			for _, date := range res.Table.Dates() {
				mean, ok := res.Table.Get(ticker, date)
				if !ok {
					continue
				}
				b.WriteString(fmt.Sprintf("  %s %s %+.3f\n", date, moodIcon(mean), mean))
			}
		}
	}

	if len(res.Failures) > 0 {
		b.WriteString("\n⚠️ <b>Skipped tickers:</b>\n")
		for _, f := range res.Failures {
			b.WriteString(fmt.Sprintf("  %s (%s): %s\n",
				html.EscapeString(string(f.Ticker)), f.Stage, html.EscapeString(f.Err.Error())))
		}
	}

	return truncate(b.String(), maxMessageLen)
}

// FormatAbort formats a run that stopped on a ticker failure.
func FormatAbort(err error) string {
	var b strings.Builder
	b.WriteString("🚨 <b>NewsSentinel run aborted</b>\n\n")
	var te *collector.TickerError
	if errors.As(err, &te) {
		b.WriteString(fmt.Sprintf("Ticker: %s\nStage: %s\n", html.EscapeString(string(te.Ticker)), te.Stage))
		err = te.Err
	}
	b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(err.Error())))
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>NewsSentinel commands</b>\n\n")
	b.WriteString("/sentiment - run the headline pipeline now\n")
	b.WriteString("/last - show the latest report again\n")
	b.WriteString("/help - show this message\n")
	return b.String()
}

func moodIcon(v float64) string {
	switch {
	case v > 0.05:
		return "🟢"
	case v < -0.05:
		return "🔴"
	default:
		return "⚪"
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	// Avoid ending inside a line, which could split an HTML tag.
	if i := strings.LastIndex(cut, "\n"); i > 0 {
		cut = cut[:i+1]
	}
	return cut + "…"
}
