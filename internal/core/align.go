package core

import (
	"regexp"
	"strings"

	"github.com/Annany2002/bookreader-backend/internal/domain"
)

// A blank line is a line holding nothing but whitespace.
var blankLineRegex = regexp.MustCompile(`\n[ \t\f\v]*\n`)

// SplitParagraphs splits text on blank lines, trims every paragraph and drops
// the empty ones. Windows and old Mac line endings are normalised first.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	parts := blankLineRegex.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// AlignParagraphs pairs the paragraphs of two parallel texts by position.
// When the paragraph counts differ, the trailing unpaired paragraphs of the
// longer text are dropped.
func AlignParagraphs(sourceText, targetText string) []domain.ParagraphPair {
	source := SplitParagraphs(sourceText)
	target := SplitParagraphs(targetText)

	n := min(len(source), len(target))
	pairs := make([]domain.ParagraphPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = domain.ParagraphPair{Source: source[i], Target: target[i]}
	}
	return pairs
}
