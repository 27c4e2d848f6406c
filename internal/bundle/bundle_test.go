package bundle

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotstrings/internal/filewalker"
	"dotstrings/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// stringBundle lays out en and fr with tables One (two strings) and Two (one).
func stringBundle(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, lang := range []string{"en", "fr"} {
		writeFile(t, filewalker.StringsFilePath(root, lang, "One"),
			"/* First */\n\"one.a\" = \"A-"+lang+"\";\n\"one.b\" = \"B-"+lang+"\";\n")
		writeFile(t, filewalker.StringsFilePath(root, lang, "Two"),
			"\"two.a\" = \"A-"+lang+"\";\n")
	}
	return root
}

func load(t *testing.T, root string) *Bundle {
	t.Helper()
	b, err := LoadAll(context.Background(), root, Options{Workers: 3})
	require.NoError(t, err)
	return b
}

func TestLoadAll(t *testing.T) {
	b := load(t, stringBundle(t))

	assert.Equal(t, []string{"en", "fr"}, b.Languages())

	en := b.TablesForLanguage("en")
	require.Len(t, en, 2)
	require.Len(t, en["One"], 2)
	assert.Equal(t, "one.a", en["One"][0].Key)
	assert.Equal(t, "A-en", en["One"][0].Value)
	assert.Equal(t, "First", en["One"][0].Comment)
	assert.Equal(t, "en", en["One"][0].Language)
	assert.Equal(t, "One", en["One"][0].Table)

	fr := b.TablesForLanguage("fr")
	assert.Equal(t, "B-fr", fr["One"][1].Value)
}

func TestLoadAll_QuotelessKeys(t *testing.T) {
	root := t.TempDir()
	for _, lang := range []string{"en", "fr"} {
		writeFile(t, filewalker.StringsFilePath(root, lang, "QuotelessKeys"),
			"NSPhotoLibraryUsageDescription = \"Photos\";\n\"NSLocationAlwaysAndWhenInUseUsageDescription\" = \"Location\";\n")
	}

	b := load(t, root)
	for _, lang := range []string{"en", "fr"} {
		var keys []string
		for _, s := range b.TablesForLanguage(lang)["QuotelessKeys"] {
			keys = append(keys, s.Key)
		}
		sort.Strings(keys)
		assert.Equal(t, []string{"NSLocationAlwaysAndWhenInUseUsageDescription", "NSPhotoLibraryUsageDescription"}, keys)
	}
}

func TestLoadAll_FailureNamesFile(t *testing.T) {
	root := stringBundle(t)
	broken := filewalker.StringsFilePath(root, "fr", "Two")
	writeFile(t, broken, "\"two.a\" = \"oops\"\n")

	_, err := LoadAll(context.Background(), root, Options{Workers: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), broken)

	var perr *parser.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoadAll_StringsDict(t *testing.T) {
	root := stringBundle(t)
	writeFile(t, filewalker.StringsDictFilePath(root, "en", "Plurals"), `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict>
<key>cats</key><dict>
<key>NSStringLocalizedFormatKey</key><string>%#@n@</string>
<key>n</key><dict>
<key>NSStringFormatSpecTypeKey</key><string>NSStringPluralRuleType</string>
<key>other</key><string>%d cats</string>
</dict></dict>
</dict></plist>`)

	b := load(t, root)
	plurals := b.Plurals("en")["Plurals"]
	require.Len(t, plurals, 1)
	assert.Equal(t, "cats", plurals[0].Key)

	names, err := b.TableNames(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two"}, names)
}

func TestLoadTableAndLanguageTables(t *testing.T) {
	root := stringBundle(t)

	strs, err := LoadTable(root, "fr", "Two", "")
	require.NoError(t, err)
	require.Len(t, strs, 1)
	assert.Equal(t, "A-fr", strs[0].Value)

	tables, err := LoadLanguageTables(root, "en", "")
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.Len(t, tables["One"], 2)
}

func TestBundle_TableNames(t *testing.T) {
	b := load(t, stringBundle(t))

	names, err := b.TableNames(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two"}, names)

	names, err = b.TableNames(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two"}, names)
}

func TestBundle_TableNamesMismatch(t *testing.T) {
	root := stringBundle(t)
	writeFile(t, filewalker.StringsFilePath(root, "en", "Extra"), "\"x\" = \"y\";")
	require.NoError(t, os.Remove(filewalker.StringsFilePath(root, "fr", "Two")))

	b := load(t, root)

	_, err := b.TableNames(true)
	var mismatch *TableMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, TableDiff{Extra: []string{"Extra", "Two"}}, mismatch.Languages["en"])
	assert.Equal(t, TableDiff{Missing: []string{"Extra", "Two"}}, mismatch.Languages["fr"])
	assert.Equal(t, "not all languages have the same tables (en: extra Extra, Two | fr: missing Extra, Two)", err.Error())

	names, err := b.TableNames(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Extra", "One", "Two"}, names)
}

func TestBundle_Views(t *testing.T) {
	b := load(t, stringBundle(t))

	tables := b.Tables()
	require.Len(t, tables, 2)
	assert.Len(t, tables["One"]["en"], 2)
	assert.Len(t, tables["One"]["fr"], 2)
	assert.Len(t, tables["Two"]["en"], 1)
	assert.Len(t, tables["Two"]["fr"], 1)

	two := b.TableForLanguages("Two")
	assert.Len(t, two, 2)
	assert.Empty(t, b.TableForLanguages("Nope"))
}

func TestBundle_Merge(t *testing.T) {
	b := load(t, stringBundle(t))

	root2 := t.TempDir()
	for _, lang := range []string{"en", "fr"} {
		writeFile(t, filewalker.StringsFilePath(root2, lang, "Three"), "\"three\" = \"3\";")
		writeFile(t, filewalker.StringsFilePath(root2, lang, "Two"), "\"two.z\" = \"Z\";")
	}
	writeFile(t, filewalker.StringsFilePath(root2, "de", "Three"), "\"three\" = \"drei\";")

	b.Merge(load(t, root2))

	assert.Equal(t, []string{"de", "en", "fr"}, b.Languages())
	names, err := b.TableNames(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Three", "Two"}, names)
	assert.Equal(t, "two.z", b.TablesForLanguage("fr")["Two"][0].Key)
}
