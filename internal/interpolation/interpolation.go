package interpolation

import (
	"regexp"
	"slices"
)

// tokenPattern matches Foundation format specifiers: %@, %d, %1$@, %.2f,
// %lld and friends.
var tokenPattern = regexp.MustCompile(`(%(?:[0-9]+\$)?[0-9]*\.?[0-9]*[a-zA-Z]{0,2}[dDuUxXoOfFeEgGcCsSaAp@])`)

// Tokens returns the format specifiers in s, in order of appearance.
func Tokens(s string) []string {
	return tokenPattern.FindAllString(s, -1)
}

// Mismatch describes how the tokens of a translation differ from its source.
type Mismatch struct {
	// Missing are tokens in the source that the translation lacks.
	Missing []string
	// Extra are tokens in the translation that the source lacks.
	Extra []string
}

// Empty reports whether both strings carry the same tokens.
func (m Mismatch) Empty() bool {
	return len(m.Missing) == 0 && len(m.Extra) == 0
}

// Compare checks that translated carries the same multiset of tokens as
// source. Order is ignored since translations may reorder positional
// arguments.
func Compare(source, translated string) Mismatch {
	src := Tokens(source)
	dst := Tokens(translated)
	slices.Sort(src)
	slices.Sort(dst)

	var m Mismatch
	i, j := 0, 0
	for i < len(src) && j < len(dst) {
		switch {
		case src[i] == dst[j]:
			i++
			j++
		case src[i] < dst[j]:
			m.Missing = append(m.Missing, src[i])
			i++
		default:
			m.Extra = append(m.Extra, dst[j])
			j++
		}
	}
	m.Missing = append(m.Missing, src[i:]...)
	m.Extra = append(m.Extra, dst[j:]...)
	return m
}
