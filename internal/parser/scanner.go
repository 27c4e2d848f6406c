package parser

import (
	"regexp"
	"strings"
)

// scanner is a forward-only cursor over decoded .strings text. It lives for
// exactly one Loads call.
type scanner struct {
	text   string
	offset int
	line   int
}

func newScanner(text string) *scanner {
	return &scanner{text: text, line: 1}
}

func (s *scanner) hasMore() bool {
	return s.offset < len(s.text)
}

// scan matches re at the current offset. On success it consumes the match
// and returns it followed by its capture groups; otherwise it returns nil and
// leaves the cursor where it was.
func (s *scanner) scan(re *regexp.Regexp) []string {
	rest := s.text[s.offset:]
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil {
		return nil
	}

	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}

	s.line += strings.Count(groups[0], "\n")
	s.offset += loc[1]
	return groups
}

// column is the 1-based byte column of the cursor on its line.
func (s *scanner) column() int {
	return s.offset - strings.LastIndexByte(s.text[:s.offset], '\n')
}

func (s *scanner) errorf(reason string) *ParseError {
	return &ParseError{
		Offset: s.offset,
		Line:   s.line,
		Column: s.column(),
		Reason: reason,
	}
}
