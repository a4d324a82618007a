// Package transcripttext cleans caption text fetched from video transcript tracks
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Remove zero-width and format chars
// 4 Collapse whitespace runs preserving line breaks
// 5 Sentence-case lines that arrive as all-caps shouting
package transcripttext

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cleaner is concurrency safe when used with the pool below
type Cleaner struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

// New constructs a Cleaner
func New() *Cleaner { return &Cleaner{} }

// Clean returns the cleaned form of s following the pipeline described above
func (c *Cleaner) Clean(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-3 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 4 collapse whitespace preserving line breaks
	ns = collapseSpaces(ns)

	// 5 auto-generated tracks often shout entire lines in caps
	return unshoutLines(ns)
}

// collapseSpaces converts whitespace runs to a single ASCII space, but preserves line breaks.
// Runs that contain any newline are collapsed to a single newline. Leading/trailing spaces/newlines are trimmed
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	started := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if started {
				inWS = true
				if r == '\n' || r == '\r' {
					sawNL = true
				}
			}
			continue
		}
		flush()
		b.WriteRune(r)
		started = true
	}
	return b.String()
}

// unshoutLines sentence-cases any line whose cased letters are all uppercase
func unshoutLines(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if isShouting(line) {
			lines[i] = sentenceCase(strings.ToLower(line))
		}
	}
	return strings.Join(lines, "\n")
}

// isShouting reports whether line has letters and every cased letter is upper
func isShouting(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// sentenceCase uppercases the first letter and any letter opening a new sentence
func sentenceCase(s string) string {
	runes := []rune(s)
	atStart := true
	for i, r := range runes {
		if atStart && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			atStart = false
			continue
		}
		switch r {
		case '.', '!', '?':
			atStart = true
		}
	}
	return string(runes)
}
