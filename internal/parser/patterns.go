package parser

import "regexp"

// space matches any Unicode white space: ASCII space and control separators,
// NEL, NBSP and the Z categories (U+2028, ideographic space and the like).
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// Token patterns for the .strings grammar. Every pattern is anchored with \A
// because the scanner matches against the unconsumed remainder of the text.
var (
	whitespacePattern = regexp.MustCompile(`\A` + space + `*`)

	// A single-quoted literal, a // line comment, or the shortest /* */ block.
	commentPattern = regexp.MustCompile(`\A(?:'(?:[^'\\]|\\[\s\S])*'|//.*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/)`)

	// "key" = "value";
	quotedEntryPattern = regexp.MustCompile(`\A"((?:[^"\\]|\\[\s\S])*)"` + space + `*=` + space + `*"((?:[^"\\]|\\[\s\S])*)"` + space + `*;`)

	// NSPhotoLibraryUsageDescription = "value";
	quotelessEntryPattern = regexp.MustCompile(`\A([A-Za-z_][A-Za-z0-9_.\-]*)` + space + `*=` + space + `*"((?:[^"\\]|\\[\s\S])*)"` + space + `*;`)
)
