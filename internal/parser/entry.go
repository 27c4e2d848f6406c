package parser

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is one key/value assignment from a .strings file.
type Entry struct {
	// Key with its surrounding quotes removed. Escapes are kept verbatim.
	Key string `json:"key"`
	// Value with its surrounding quotes removed. May contain newlines.
	Value string `json:"value"`
	// Comments in source order, one element per comment line.
	Comments []string `json:"comments"`
	// Line is the 1-based line of the key in the source (0 if unknown).
	Line int `json:"line,omitempty"`
}

// StringsFormat renders the entry the way it would appear in a .strings file.
// Comments are emitted from Comments, not from the original source.
func (e Entry) StringsFormat() string {
	keyValue := fmt.Sprintf(`"%s" = "%s";`, e.Key, e.Value)

	switch len(e.Comments) {
	case 0:
		return keyValue
	case 1:
		return fmt.Sprintf("/* %s */\n%s", e.Comments[0], keyValue)
	case 2:
		return fmt.Sprintf("/* %s\n   %s */\n%s", e.Comments[0], e.Comments[1], keyValue)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "/* %s\n", e.Comments[0])
	for _, c := range e.Comments[1 : len(e.Comments)-1] {
		fmt.Fprintf(&b, "   %s\n", c)
	}
	fmt.Fprintf(&b, "   %s */\n%s", e.Comments[len(e.Comments)-1], keyValue)
	return b.String()
}

// Equal reports whether two entries have the same key, value and comments.
// Line is not compared.
func (e Entry) Equal(other Entry) bool {
	return e.Key == other.Key &&
		e.Value == other.Value &&
		slices.Equal(e.Comments, other.Comments)
}

// Clone returns a copy that shares no memory with e.
func (e Entry) Clone() Entry {
	e.Comments = slices.Clone(e.Comments)
	return e
}

func (e Entry) String() string {
	return fmt.Sprintf("{key: %q, value: %q, comments: %q}", e.Key, e.Value, e.Comments)
}
