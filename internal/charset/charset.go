// Package charset resolves the text encoding of localization files.
//
// Apple tooling emits .strings files as UTF-8 or UTF-16 depending on its
// version, usually without telling anyone which. Decode tries a fixed list of
// candidates and keeps the first one that decodes the whole input cleanly.
package charset

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Names of the built-in candidates, in the order they are tried.
const (
	UTF8BOM = "utf-8-sig"
	UTF8    = "utf-8"
	UTF16   = "utf-16"
	UTF16LE = "utf-16-le"
	UTF16BE = "utf-16-be"
)

// DefaultCandidates is the automatic detection order.
var DefaultCandidates = []string{UTF8BOM, UTF8, UTF16, UTF16LE, UTF16BE}

// EncodingError reports that no candidate encoding could decode a file.
type EncodingError struct {
	Path  string
	Tried []string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("could not determine encoding (tried %s)", strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("could not determine encoding for file at path: %s (tried %s)", e.Path, strings.Join(e.Tried, ", "))
}

func (e *EncodingError) Unwrap() error { return e.Err }

type family int

const (
	familyLegacy family = iota
	familyUTF8
	familyUTF16
)

type candidate struct {
	name      string
	enc       encoding.Encoding
	family    family
	bigEndian bool
}

// During detection utf-16 only matches input that starts with a BOM, so
// BOM-less files reach the explicit byte orders.
var builtins = map[string]candidate{
	UTF8BOM: {name: UTF8BOM, enc: unicode.UTF8BOM, family: familyUTF8},
	UTF8:    {name: UTF8, enc: unicode.UTF8, family: familyUTF8},
	UTF16:   {name: UTF16, enc: unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), family: familyUTF16},
	UTF16LE: {name: UTF16LE, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), family: familyUTF16},
	UTF16BE: {name: UTF16BE, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), family: familyUTF16, bigEndian: true},
}

// explicitUTF16 is used when utf-16 is named by the caller: a missing BOM
// means little endian.
var explicitUTF16 = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

var aliases = map[string]string{
	"utf8":     UTF8,
	"utf8-sig": UTF8BOM,
	"utf16":    UTF16,
	"utf-16le": UTF16LE,
	"utf16le":  UTF16LE,
	"utf-16be": UTF16BE,
	"utf16be":  UTF16BE,
}

func lookup(name string) (candidate, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if alias, ok := aliases[norm]; ok {
		norm = alias
	}
	if c, ok := builtins[norm]; ok {
		return c, nil
	}
	enc, err := htmlindex.Get(norm)
	if err != nil {
		return candidate{}, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return candidate{name: norm, enc: enc}, nil
}

// Decode converts raw bytes to text. With a non-empty encodingName only that
// encoding is used; otherwise DefaultCandidates are tried in order. It returns
// the decoded text and the name of the encoding that succeeded.
func Decode(raw []byte, encodingName string) (string, string, error) {
	return decode("", raw, encodingName)
}

// ReadFile reads path and decodes it as Decode does. The file is only read.
func ReadFile(path, encodingName string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return decode(path, raw, encodingName)
}

func decode(path string, raw []byte, encodingName string) (string, string, error) {
	names := DefaultCandidates
	if encodingName != "" {
		names = []string{encodingName}
	}

	var lastErr error
	for _, name := range names {
		c, err := lookup(name)
		if err != nil {
			return "", "", &EncodingError{Path: path, Tried: []string{name}, Err: err}
		}
		if encodingName != "" && c.name == UTF16 {
			c.enc = explicitUTF16
		}
		text, err := c.decode(raw)
		if err == nil {
			return text, c.name, nil
		}
		lastErr = err
	}

	return "", "", &EncodingError{Path: path, Tried: names, Err: lastErr}
}

func (c candidate) decode(raw []byte) (string, error) {
	switch c.family {
	case familyUTF8:
		body := raw
		if c.name == UTF8BOM {
			body = bytes.TrimPrefix(body, []byte{0xEF, 0xBB, 0xBF})
		}
		if !utf8.Valid(body) {
			return "", fmt.Errorf("%s: invalid byte sequence", c.name)
		}
	case familyUTF16:
		if len(raw)%2 != 0 {
			return "", fmt.Errorf("%s: truncated data", c.name)
		}
		if !validUTF16(raw, c.byteOrder(raw)) {
			return "", fmt.Errorf("%s: unpaired surrogate", c.name)
		}
	}

	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return "", fmt.Errorf("%s: decoded text contains NUL", c.name)
	}
	// Single-byte tables map unassigned bytes to U+FFFD and cannot encode it
	// themselves, so any replacement character is a decode failure.
	if c.family == familyLegacy && bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%s: undecodable sequence", c.name)
	}
	return string(out), nil
}

// byteOrder reports whether raw is read big endian. utf-16 follows the BOM.
func (c candidate) byteOrder(raw []byte) bool {
	if c.name == UTF16 {
		return bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
	}
	return c.bigEndian
}

// validUTF16 reports whether every surrogate in raw is part of a
// high/low pair.
func validUTF16(raw []byte, bigEndian bool) bool {
	unit := func(i int) rune {
		if bigEndian {
			return rune(raw[i])<<8 | rune(raw[i+1])
		}
		return rune(raw[i+1])<<8 | rune(raw[i])
	}

	for i := 0; i+1 < len(raw); i += 2 {
		r := unit(i)
		if !utf16.IsSurrogate(r) {
			continue
		}
		if r >= 0xDC00 || i+3 >= len(raw) {
			return false
		}
		if next := unit(i + 2); next < 0xDC00 || next > 0xDFFF {
			return false
		}
		i += 2
	}
	return true
}
