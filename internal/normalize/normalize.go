// Package normalize rewrites .strings tables into a canonical form: sorted by
// key, duplicates folded together and comments sorted.
package normalize

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"dotstrings/internal/parser"
)

// DuplicateKeyError reports two entries sharing a key that could not be
// folded together.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("found duplicate strings with key: %s", e.Key)
}

// Options controls normalization.
type Options struct {
	// RemoveDuplicates folds entries with the same key and value into one,
	// combining their comments. When false any duplicate key is an error.
	RemoveDuplicates bool
	// SortComments sorts and deduplicates each entry's comments. Turn it off
	// for tables whose comments rely on line order.
	SortComments bool
	// Encoding of the input file; empty means auto-detect.
	Encoding string
}

// DefaultOptions removes duplicates and sorts comments.
func DefaultOptions() Options {
	return Options{RemoveDuplicates: true, SortComments: true}
}

// Entries returns a normalized copy of entries. Entries with the same key but
// different values are always an error.
func Entries(entries []parser.Entry, opts Options) ([]parser.Entry, error) {
	sorted := make([]parser.Entry, len(entries))
	for i, e := range entries {
		sorted[i] = e.Clone()
	}
	slices.SortStableFunc(sorted, compareEntries)

	var out []parser.Entry
	for _, e := range sorted {
		if len(out) == 0 || out[len(out)-1].Key != e.Key {
			out = append(out, e)
			continue
		}

		last := &out[len(out)-1]
		if last.Value != e.Value || !opts.RemoveDuplicates {
			return nil, &DuplicateKeyError{Key: e.Key}
		}
		last.Comments = append(last.Comments, e.Comments...)
	}

	if opts.SortComments {
		for i := range out {
			slices.Sort(out[i].Comments)
			out[i].Comments = slices.Compact(out[i].Comments)
		}
	}

	return out, nil
}

// File normalizes the table at path and writes it to output as UTF-8. An
// empty output overwrites the input.
func File(path, output string, opts Options) error {
	entries, err := parser.LoadFile(path, opts.Encoding)
	if err != nil {
		return err
	}

	normalized, err := Entries(entries, opts)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}

	if output == "" {
		output = path
	}
	if err := os.WriteFile(output, []byte(parser.FormatEntries(normalized)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

// compareEntries orders by key, then by comments element by element.
func compareEntries(a, b parser.Entry) int {
	if c := cmp.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	return slices.Compare(a.Comments, b.Comments)
}
