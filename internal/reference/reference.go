// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference finds numbered bibliography entries ("[12] ...") that
// carry a URL or a DOI.
package reference

import (
	"net/url"
	"regexp"
	"strconv"

	"github.com/pdiddy/reference-archive/pkg/types"
)

var (
	// entryRe matches a whole line starting with a bracketed reference number.
	entryRe = regexp.MustCompile(`(?m)^\[([0-9]+)\][^\n]*`)

	// urlRe matches http and https tokens up to the next whitespace.
	urlRe = regexp.MustCompile(`https?://\S+`)

	// doiRe matches DOI tokens like "10.1371/journal.pbio.0000057".
	doiRe = regexp.MustCompile(`10\.[0-9]+/\S+`)
)

// Scanner yields the references of a document one at a time. It is
// single-pass: once Scan returns false the scanner is exhausted, and a new
// Scanner is needed to read the document again.
//
//	sc := reference.NewScanner(text)
//	for sc.Scan() {
//		ref := sc.Reference()
//		...
//	}
type Scanner struct {
	text string
	pos  int
	ref  types.Reference
	done bool
}

// NewScanner returns a Scanner over text. No matching happens until Scan.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text}
}

// Scan advances to the next reference line that carries a usable URL or DOI.
// Lines whose number, URL, and DOI are all unusable are skipped silently.
func (s *Scanner) Scan() bool {
	for !s.done {
		loc := entryRe.FindStringSubmatchIndex(s.text[s.pos:])
		if loc == nil {
			s.done = true
			break
		}
		line := s.text[s.pos+loc[0] : s.pos+loc[1]]
		number := s.text[s.pos+loc[2] : s.pos+loc[3]]
		// Matches end at the newline, so the next search starts on a fresh line.
		s.pos += loc[1]

		if ref, ok := parseEntry(number, line[loc[3]-loc[0]+1:]); ok {
			s.ref = ref
			return true
		}
	}
	s.ref = types.Reference{}
	return false
}

// Reference returns the reference found by the last successful Scan.
func (s *Scanner) Reference() types.Reference {
	return s.ref
}

// Parse drains a Scanner over text and returns every reference in document order.
func Parse(text string) []types.Reference {
	var refs []types.Reference
	sc := NewScanner(text)
	for sc.Scan() {
		refs = append(refs, sc.Reference())
	}
	return refs
}

// parseEntry builds a Reference from the bracketed number and the rest of
// the line. A valid URL anywhere on the line wins over a DOI.
func parseEntry(number, rest string) (types.Reference, bool) {
	id, err := strconv.Atoi(number)
	if err != nil || id < 1 {
		return types.Reference{}, false
	}

	for _, candidate := range urlRe.FindAllString(rest, -1) {
		if IsValidURL(candidate) {
			return types.Reference{ID: id, Source: types.URLSource{URL: candidate}}, true
		}
	}

	if doi := doiRe.FindString(rest); doi != "" {
		return types.Reference{ID: id, Source: types.DOISource{DOI: doi}}, true
	}
	return types.Reference{}, false
}

// IsValidURL reports whether raw is an absolute http or https URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
