// Package localized models a single localized string as used across a
// bundle: a .strings entry together with the language and table it belongs
// to.
package localized

import (
	"errors"
	"fmt"
	"strings"

	"dotstrings/internal/interpolation"
	"dotstrings/internal/parser"
	"dotstrings/internal/textutil"
)

// DefaultTable is the table NSLocalizedString reads when none is given.
const DefaultTable = "Localizable"

// ErrNotEnglish is returned when source code is generated from a non-English
// string.
var ErrNotEnglish = errors.New("NSLocalizedString calls can only be generated for English strings")

// String is one localized string.
type String struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	Language     string `json:"language"`
	Table        string `json:"table"`
	Comment      string `json:"comment,omitempty"`
	KeyExtension string `json:"key_extension,omitempty"`
	Bundle       string `json:"bundle,omitempty"`
}

// New builds a String. When key is empty it is derived from the value and
// keyExtension with DeriveKey; that should only be done for the base
// language since the key would change with every translation.
func New(key, value, language, table, comment, keyExtension string) String {
	if key == "" {
		key = DeriveKey(value, keyExtension)
	}
	return String{
		Key:          key,
		Value:        value,
		Language:     language,
		Table:        table,
		Comment:      comment,
		KeyExtension: keyExtension,
	}
}

// DeriveKey hashes the value as the string compiler would see it, so
// identical values share a key unless a key extension separates them. An
// empty keyExtension means none; no ":" is appended.
func DeriveKey(value, keyExtension string) string {
	input := value
	if keyExtension != "" {
		input += ":" + keyExtension
	}
	return textutil.Hash(textutil.Unescape(input))
}

// FromEntries converts parsed entries into Strings of one language and table.
// Entry comments are joined with newlines.
func FromEntries(entries []parser.Entry, language, table string) []String {
	out := make([]String, 0, len(entries))
	for _, e := range entries {
		out = append(out, String{
			Key:      e.Key,
			Value:    e.Value,
			Language: language,
			Table:    table,
			Comment:  strings.Join(e.Comments, "\n"),
		})
	}
	return out
}

// Tokens returns the format specifiers in the value.
func (s String) Tokens() []string {
	return interpolation.Tokens(s.Value)
}

// NSLocalizedFormat returns the Objective-C call that declares the string.
func (s String) NSLocalizedFormat() (string, error) {
	if s.Language != "en" {
		return "", fmt.Errorf("%w: %s", ErrNotEnglish, s)
	}
	return fmt.Sprintf(`NSLocalizedStringWithDefaultValue(@"%s", @"%s", @"%s", @"%s", @"%s");`,
		s.Key, s.Table, s.Bundle, s.Value, s.Comment), nil
}

// Entry converts the string back into a .strings entry.
func (s String) Entry() parser.Entry {
	comments := []string{}
	if s.Comment != "" {
		comments = strings.Split(s.Comment, "\n")
	}
	return parser.Entry{Key: s.Key, Value: s.Value, Comments: comments}
}

func (s String) String() string {
	return fmt.Sprintf("{key: %q, value: %q, language: %q, table: %q, comment: %q, bundle: %q, key_extension: %q}",
		s.Key, s.Value, s.Language, s.Table, s.Comment, s.Bundle, s.KeyExtension)
}
