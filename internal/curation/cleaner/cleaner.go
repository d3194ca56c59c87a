// Package cleaner normalises extracted text and strips common noise.
package cleaner

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

var (
	exclamationRun = regexp.MustCompile(`!{3,}`)
	questionRun    = regexp.MustCompile(`\?{3,}`)
	ellipsisRun    = regexp.MustCompile(`\.{4,}`)
	newlineRun     = regexp.MustCompile(`\n{3,}`)

	urlPattern = regexp.MustCompile(
		`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	emailPattern = regexp.MustCompile(`\S+@\S+`)
)

// Cleaner normalises text. It is stateless and safe for concurrent use.
type Cleaner struct {
	preserveParagraphs bool
}

// Option configures the cleaner.
type Option func(*Cleaner)

// WithPreserveParagraphs keeps line breaks. Horizontal whitespace still
// collapses to one space and runs of three or more newlines become two.
func WithPreserveParagraphs(preserve bool) Option {
	return func(c *Cleaner) {
		c.preserveParagraphs = preserve
	}
}

// New creates a cleaner with the given options.
// By default every whitespace run, newlines included, becomes one space.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PreserveParagraphs reports whether line breaks survive cleaning.
func (c *Cleaner) PreserveParagraphs() bool {
	return c.preserveParagraphs
}

// Clean normalises text and reports how much was removed. It never fails.
// Cleaning is idempotent: cleaning already-cleaned text returns it unchanged.
func (c *Cleaner) Clean(text string) domain.CleanResult {
	if text == "" {
		return domain.CleanResult{}
	}

	cleaned := stripControl(text)
	cleaned = norm.NFKC.String(cleaned)
	cleaned = c.collapseWhitespace(cleaned)

	cleaned = exclamationRun.ReplaceAllString(cleaned, "!")
	cleaned = questionRun.ReplaceAllString(cleaned, "?")
	cleaned = ellipsisRun.ReplaceAllString(cleaned, "...")

	cleaned = urlPattern.ReplaceAllString(cleaned, "")
	cleaned = emailPattern.ReplaceAllString(cleaned, "")

	// Removals leave gaps and can join combining marks to new bases.
	cleaned = c.collapseWhitespace(cleaned)
	cleaned = newlineRun.ReplaceAllString(cleaned, "\n\n")
	cleaned = norm.NFKC.String(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	return domain.CleanResult{
		CleanedText: cleaned,
		Stats:       Stats(text, cleaned),
	}
}

// Stats computes cleaning statistics in code points.
// RemovedChars is negative when normalisation expanded the text.
func Stats(original, cleaned string) domain.CleaningStats {
	originalLen := utf8.RuneCountInString(original)
	cleanedLen := utf8.RuneCountInString(cleaned)
	removed := originalLen - cleanedLen

	var percent float64
	if originalLen > 0 {
		percent = math.Round(float64(removed)/float64(originalLen)*100*100) / 100
	}

	return domain.CleaningStats{
		OriginalLength:   originalLen,
		CleanedLength:    cleanedLen,
		RemovedChars:     removed,
		ReductionPercent: percent,
	}
}

// stripControl drops C0 and C1 control characters except tab, newline and
// carriage return, which whitespace collapsing handles.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r <= 0x1f, r >= 0x7f && r <= 0x9f:
			return -1
		default:
			return r
		}
	}, s)
}

func (c *Cleaner) collapseWhitespace(s string) string {
	if c.preserveParagraphs {
		return collapseHorizontal(s)
	}
	return collapseAll(s)
}

// collapseAll replaces every whitespace run with a single space.
func collapseAll(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// collapseHorizontal replaces whitespace runs without a line break with a
// single space and runs containing line breaks with just those breaks.
func collapseHorizontal(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))

	var (
		inSpace  bool
		newlines int
	)
	flush := func() {
		if newlines > 0 {
			b.WriteString(strings.Repeat("\n", newlines))
		} else if inSpace {
			b.WriteByte(' ')
		}
		inSpace = false
		newlines = 0
	}

	for _, r := range s {
		switch {
		case r == '\n':
			newlines++
		case unicode.IsSpace(r):
			inSpace = true
		default:
			flush()
			b.WriteRune(r)
		}
	}
	flush()
	return b.String()
}
