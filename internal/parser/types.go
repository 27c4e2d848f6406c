package parser

import (
	"fmt"
	"strings"

	"dotstrings/internal/charset"
)

// File types reported in ParseResult.FileType.
const (
	TypeStrings     = "strings"
	TypeStringsDict = "stringsdict"
)

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path the result was parsed from.
	FilePath string
	// FileType is TypeStrings or TypeStringsDict.
	FileType string
	// Encoding is the encoding that decoded a .strings file.
	Encoding string
	// Entries are the .strings entries in source order.
	Entries []Entry
	// DictEntries are the .stringsdict entries sorted by key.
	DictEntries []DictEntry
}

// Parser is the interface for the localization file parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse reads and parses a file.
	Parse(filePath string) (*ParseResult, error)
	// Reconstruct serializes a result back to the file format.
	Reconstruct(result *ParseResult) ([]byte, error)
}

// StringsParser handles .strings files.
type StringsParser struct {
	// Encoding forces a single encoding; empty means auto-detect.
	Encoding string
}

func NewStringsParser(encoding string) *StringsParser {
	return &StringsParser{Encoding: encoding}
}

func (p *StringsParser) CanParse(ext string) bool {
	return ext == ".strings"
}

func (p *StringsParser) Parse(filePath string) (*ParseResult, error) {
	text, enc, err := charset.ReadFile(filePath, p.Encoding)
	if err != nil {
		return nil, err
	}

	entries, err := Loads(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	return &ParseResult{
		FilePath: filePath,
		FileType: TypeStrings,
		Encoding: enc,
		Entries:  entries,
	}, nil
}

// Reconstruct writes each entry followed by a blank line, as UTF-8.
func (p *StringsParser) Reconstruct(result *ParseResult) ([]byte, error) {
	return []byte(FormatEntries(result.Entries)), nil
}

// FormatEntries renders entries as a .strings document.
func FormatEntries(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.StringsFormat())
		b.WriteString("\n\n")
	}
	return b.String()
}

// DictParser handles .stringsdict files.
type DictParser struct{}

func NewDictParser() *DictParser { return &DictParser{} }

func (p *DictParser) CanParse(ext string) bool {
	return ext == ".stringsdict"
}

func (p *DictParser) Parse(filePath string) (*ParseResult, error) {
	entries, err := LoadDictFile(filePath)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FilePath:    filePath,
		FileType:    TypeStringsDict,
		DictEntries: entries,
	}, nil
}

func (p *DictParser) Reconstruct(result *ParseResult) ([]byte, error) {
	return MarshalDict(result.DictEntries)
}
