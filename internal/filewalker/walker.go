package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dotstrings/internal/parser"

	"github.com/rs/zerolog/log"
)

// Extensions of the files that make up a table.
const (
	LanguageFolderExt = ".lproj"
	StringsExt        = ".strings"
	StringsDictExt    = ".stringsdict"
)

// SupportedExtensions lists file types handled by the tool.
var SupportedExtensions = map[string]bool{
	StringsExt:     true,
	StringsDictExt: true,
}

// LanguageFolderPath returns <root>/<language>.lproj.
func LanguageFolderPath(root, language string) string {
	return filepath.Join(root, language+LanguageFolderExt)
}

// StringsFilePath returns <root>/<language>.lproj/<table>.strings.
func StringsFilePath(root, language, table string) string {
	return filepath.Join(LanguageFolderPath(root, language), table+StringsExt)
}

// StringsDictFilePath returns <root>/<language>.lproj/<table>.stringsdict.
func StringsDictFilePath(root, language, table string) string {
	return filepath.Join(LanguageFolderPath(root, language), table+StringsDictExt)
}

// Languages returns the sorted language codes of the *.lproj folders in root.
func Languages(root string) ([]string, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}

	var languages []string
	for _, de := range dirEntries {
		if de.IsDir() && strings.HasSuffix(de.Name(), LanguageFolderExt) {
			languages = append(languages, strings.TrimSuffix(de.Name(), LanguageFolderExt))
		}
	}
	sort.Strings(languages)
	return languages, nil
}

// Tables returns the sorted table names in one language folder that have the
// given extension.
func Tables(root, language, ext string) ([]string, error) {
	dirEntries, err := os.ReadDir(LanguageFolderPath(root, language))
	if err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", language, err)
	}

	var tables []string
	for _, de := range dirEntries {
		if !de.IsDir() && filepath.Ext(de.Name()) == ext {
			tables = append(tables, strings.TrimSuffix(de.Name(), ext))
		}
	}
	sort.Strings(tables)
	return tables, nil
}

// Walker discovers localization tables and dispatches them to a parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker with the .strings and .stringsdict parsers.
// encoding is passed to the .strings parser; empty means auto-detect.
func NewWalker(encoding string) *Walker {
	return &Walker{
		parsers: []parser.Parser{
			parser.NewStringsParser(encoding),
			parser.NewDictParser(),
		},
	}
}

// FileEntry represents a discovered table file ready for processing.
type FileEntry struct {
	Path     string
	Language string
	Table    string
	Ext      string
	Parser   parser.Parser
}

// Walk discovers every <language>.lproj/<table>.(strings|stringsdict) file
// under root. Files are ordered by language, then path.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	languages, err := Languages(root)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry
	for _, language := range languages {
		dirEntries, err := os.ReadDir(LanguageFolderPath(root, language))
		if err != nil {
			return nil, fmt.Errorf("list tables for %s: %w", language, err)
		}

		for _, de := range dirEntries {
			if de.IsDir() {
				continue
			}
			ext := filepath.Ext(de.Name())
			if !SupportedExtensions[ext] {
				continue
			}

			if fe, ok := w.entry(root, language, de.Name(), ext); ok {
				entries = append(entries, fe)
			}
		}
	}

	log.Debug().Int("count", len(entries)).Str("root", root).Msg("Discovered table files")
	return entries, nil
}

func (w *Walker) entry(root, language, name, ext string) (FileEntry, bool) {
	for _, p := range w.parsers {
		if p.CanParse(ext) {
			return FileEntry{
				Path:     filepath.Join(LanguageFolderPath(root, language), name),
				Language: language,
				Table:    strings.TrimSuffix(name, ext),
				Ext:      ext,
				Parser:   p,
			}, true
		}
	}
	return FileEntry{}, false
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}
