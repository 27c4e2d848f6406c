package bundle

import (
	"context"
	"fmt"

	"dotstrings/internal/filewalker"
	"dotstrings/internal/localized"
	"dotstrings/internal/parser"
	"dotstrings/internal/worker"

	"github.com/rs/zerolog/log"
)

// Options controls how a localization root is loaded.
type Options struct {
	// Workers is the number of files parsed concurrently.
	Workers int
	// Encoding forces the encoding of .strings files; empty means auto-detect.
	Encoding string
}

// LoadTable parses <root>/<language>.lproj/<table>.strings.
func LoadTable(root, language, table, encoding string) ([]localized.String, error) {
	entries, err := parser.LoadFile(filewalker.StringsFilePath(root, language, table), encoding)
	if err != nil {
		return nil, err
	}
	return localized.FromEntries(entries, language, table), nil
}

// LoadLanguageTables parses every .strings table of one language.
func LoadLanguageTables(root, language, encoding string) (Tables, error) {
	names, err := filewalker.Tables(root, language, filewalker.StringsExt)
	if err != nil {
		return nil, err
	}

	tables := make(Tables, len(names))
	for _, name := range names {
		strs, err := LoadTable(root, language, name, encoding)
		if err != nil {
			return nil, err
		}
		tables[name] = strs
	}
	return tables, nil
}

// LoadAll parses every table under root. Files are parsed concurrently, one
// task per file; the first failure aborts the load and names the file.
func LoadAll(ctx context.Context, root string, opts Options) (*Bundle, error) {
	w := filewalker.NewWalker(opts.Encoding)
	files, err := w.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	languages, err := filewalker.Languages(root)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool[filewalker.FileEntry, *parser.ParseResult](opts.Workers,
		func(ctx context.Context, fe filewalker.FileEntry) (*parser.ParseResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return w.ParseFile(fe)
		},
	)
	tasks := pool.Execute(ctx, files)

	b := New(make(map[string]Tables, len(languages)))
	for _, language := range languages {
		b.entries[language] = make(Tables)
	}

	for _, task := range tasks {
		fe := task.Input
		if task.Err != nil {
			log.Error().Err(task.Err).Str("file", fe.Path).Msg("Parse failed")
			return nil, fmt.Errorf("load %s: %w", fe.Path, task.Err)
		}

		switch task.Result.FileType {
		case parser.TypeStrings:
			b.entries[fe.Language][fe.Table] = localized.FromEntries(task.Result.Entries, fe.Language, fe.Table)
		case parser.TypeStringsDict:
			b.SetPlurals(fe.Language, fe.Table, task.Result.DictEntries)
		}
	}

	log.Debug().
		Str("root", root).
		Int("languages", len(languages)).
		Int("files", len(files)).
		Msg("Loaded bundle")

	return b, nil
}
