package parser

import (
	"fmt"
	"io"
	"strings"

	"dotstrings/internal/charset"
)

// Loads parses the contents of a .strings file.
//
// The whole input must be consumed: anything left over that is neither
// whitespace, a comment nor an entry fails the parse with a *ParseError.
// Input containing CRLF is rejected with ErrCRLFNotSupported.
func Loads(text string) ([]Entry, error) {
	if strings.Contains(text, "\r\n") {
		return nil, ErrCRLFNotSupported
	}

	s := newScanner(text)
	var entries []Entry

	for s.hasMore() {
		s.scan(whitespacePattern)
		comments := extractComments(s)

		entry, ok := matchEntry(s)
		if !ok {
			if s.hasMore() {
				return nil, s.errorf(unmatchedReason(s))
			}
			break
		}

		entry.Comments = comments
		entries = append(entries, entry)
	}

	return entries, nil
}

// Load reads r to the end and parses it. r must already yield UTF-8.
func Load(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read strings: %w", err)
	}
	return Loads(string(data))
}

// LoadFile decodes the file at path and parses it. An empty encoding means
// the candidates in charset.DefaultCandidates are tried in order.
func LoadFile(path, encoding string) ([]Entry, error) {
	text, _, err := charset.ReadFile(path, encoding)
	if err != nil {
		return nil, err
	}
	entries, err := Loads(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// extractComments consumes consecutive comments along with the whitespace
// after each one, returning their lines in order.
func extractComments(s *scanner) []string {
	comments := []string{}
	for {
		m := s.scan(commentPattern)
		if m == nil {
			return comments
		}
		comments = append(comments, splitComment(m[0])...)
		s.scan(whitespacePattern)
	}
}

func splitComment(raw string) []string {
	switch {
	case strings.HasPrefix(raw, "//"):
		raw = raw[2:]
	case strings.HasPrefix(raw, "/*"):
		raw = strings.TrimSuffix(raw[2:], "*/")
	}

	parts := strings.Split(strings.TrimSpace(raw), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// matchEntry tries the quoted form first so a quoted key is never read as a
// bare identifier.
func matchEntry(s *scanner) (Entry, bool) {
	line := s.line

	m := s.scan(quotedEntryPattern)
	if m == nil {
		m = s.scan(quotelessEntryPattern)
	}
	if m == nil {
		return Entry{}, false
	}

	return Entry{Key: m[1], Value: m[2], Line: line}, true
}

func unmatchedReason(s *scanner) string {
	rest := s.text[s.offset:]
	switch {
	case strings.HasPrefix(rest, "/*"):
		return "unterminated comment"
	case strings.HasPrefix(rest, `"`):
		return "malformed entry"
	default:
		return "expected an entry"
	}
}
