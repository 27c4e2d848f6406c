// Package bundle aggregates the tables of a localization root across all of
// its languages.
package bundle

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"dotstrings/internal/localized"
	"dotstrings/internal/parser"
)

// Tables maps a table name to its strings.
type Tables map[string][]localized.String

// Bundle holds every table of every language under one root, keyed first by
// language and then by table.
type Bundle struct {
	entries map[string]Tables
	plurals map[string]map[string][]parser.DictEntry
}

// New wraps already loaded tables. The map is used as is.
func New(entries map[string]Tables) *Bundle {
	if entries == nil {
		entries = make(map[string]Tables)
	}
	return &Bundle{entries: entries, plurals: make(map[string]map[string][]parser.DictEntry)}
}

// Entries returns the underlying language → table → strings map.
func (b *Bundle) Entries() map[string]Tables {
	return b.entries
}

// Languages returns the language codes in the bundle, sorted.
func (b *Bundle) Languages() []string {
	return slices.Sorted(maps.Keys(b.entries))
}

// TableNames returns the sorted union of table names. With validateIdentical
// every language must define the same set of tables, otherwise a
// *TableMismatchError describes the differences.
func (b *Bundle) TableNames(validateIdentical bool) ([]string, error) {
	union := make(map[string]bool)
	for _, tables := range b.entries {
		for name := range tables {
			union[name] = true
		}
	}
	names := slices.Sorted(maps.Keys(union))

	if !validateIdentical {
		return names, nil
	}
	if err := b.validateTables(names); err != nil {
		return nil, err
	}
	return names, nil
}

func (b *Bundle) validateTables(union []string) error {
	shared := make(map[string]bool)
	for _, name := range union {
		shared[name] = true
		for _, tables := range b.entries {
			if _, ok := tables[name]; !ok {
				shared[name] = false
				break
			}
		}
	}

	diffs := make(map[string]TableDiff)
	for language, tables := range b.entries {
		var d TableDiff
		for _, name := range union {
			_, has := tables[name]
			switch {
			case !has:
				d.Missing = append(d.Missing, name)
			case !shared[name]:
				d.Extra = append(d.Extra, name)
			}
		}
		if len(d.Missing) > 0 || len(d.Extra) > 0 {
			diffs[language] = d
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return &TableMismatchError{Languages: diffs}
}

// TablesForLanguage returns the tables of one language, or nil.
func (b *Bundle) TablesForLanguage(language string) Tables {
	return b.entries[language]
}

// TableForLanguages returns one table keyed by language. Languages without
// the table are left out.
func (b *Bundle) TableForLanguages(table string) map[string][]localized.String {
	out := make(map[string][]localized.String)
	for language, tables := range b.entries {
		if strs, ok := tables[table]; ok {
			out[language] = strs
		}
	}
	return out
}

// Tables returns the bundle keyed by table first, then by language.
func (b *Bundle) Tables() map[string]map[string][]localized.String {
	names, _ := b.TableNames(false)
	out := make(map[string]map[string][]localized.String, len(names))
	for _, name := range names {
		out[name] = b.TableForLanguages(name)
	}
	return out
}

// Plurals returns the .stringsdict tables of one language.
func (b *Bundle) Plurals(language string) map[string][]parser.DictEntry {
	return b.plurals[language]
}

// SetPlurals stores the entries of one .stringsdict table.
func (b *Bundle) SetPlurals(language, table string, entries []parser.DictEntry) {
	if b.plurals[language] == nil {
		b.plurals[language] = make(map[string][]parser.DictEntry)
	}
	b.plurals[language][table] = entries
}

// Merge copies every table of other into b. A table present in both is
// replaced by other's.
func (b *Bundle) Merge(other *Bundle) {
	for language, tables := range other.entries {
		if b.entries[language] == nil {
			b.entries[language] = make(Tables)
		}
		for name, strs := range tables {
			b.entries[language][name] = strs
		}
	}
	for language, tables := range other.plurals {
		for name, entries := range tables {
			b.SetPlurals(language, name, entries)
		}
	}
}

// TableDiff lists how one language's tables differ from the rest.
type TableDiff struct {
	// Missing are tables other languages define but this one does not.
	Missing []string
	// Extra are tables this language defines but not every other does.
	Extra []string
}

// TableMismatchError reports languages that do not share the same tables.
type TableMismatchError struct {
	Languages map[string]TableDiff
}

func (e *TableMismatchError) Error() string {
	var parts []string
	for _, language := range slices.Sorted(maps.Keys(e.Languages)) {
		d := e.Languages[language]
		var desc []string
		if len(d.Extra) > 0 {
			desc = append(desc, "extra "+strings.Join(d.Extra, ", "))
		}
		if len(d.Missing) > 0 {
			desc = append(desc, "missing "+strings.Join(d.Missing, ", "))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", language, strings.Join(desc, "; ")))
	}
	return "not all languages have the same tables (" + strings.Join(parts, " | ") + ")"
}
