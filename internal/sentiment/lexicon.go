package sentiment

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jonreiter/govader"
)

// Lexicon maps lower-cased tokens to their mean valence. It overlays the stock VADER
// lexicon, for domain terms such as "downgrade" that VADER leaves neutral.
type Lexicon map[string]float64

// ParseLexicon reads the tab-separated VADER lexicon layout: token, mean valence, then
// any number of ignored columns. Blank lines and lines starting with # are skipped.
func ParseLexicon(r io.Reader) (Lexicon, error) {
	lex := make(Lexicon)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("lexicon line %d: expected token and valence", line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[strings.ToLower(strings.TrimSpace(fields[0]))] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lex, nil
}

// LoadLexicon reads an overlay lexicon file.
func LoadLexicon(path string) (Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	return ParseLexicon(f)
}

// LexiconScorer scores text with the pretrained VADER model. The analyzer is only read
// after construction, so a scorer is safe for concurrent use.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexiconScorer creates a VADER scorer. Entries in overlay replace or extend the
// stock lexicon; nil keeps it as published.
func NewLexiconScorer(overlay Lexicon) *LexiconScorer {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	for token, valence := range overlay {
		analyzer.Lexicon[strings.ToLower(token)] = valence
	}
	return &LexiconScorer{analyzer: analyzer}
}

func (s *LexiconScorer) Score(_ context.Context, text string) (float64, error) {
	return s.Compound(text), nil
}

// Compound returns the normalized compound score of text.
func (s *LexiconScorer) Compound(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}
