package textutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// compilerEscapes undoes the two escapes the string compiler resolves before
// a value is hashed into a key.
var compilerEscapes = strings.NewReplacer(`\n`, "\n", `\"`, `"`)

// Unescape replaces `\n` with a newline and `\"` with a quote. Other
// backslash sequences are left alone.
func Unescape(s string) string {
	return compilerEscapes.Replace(s)
}

// Hash computes an MD5 hex digest of a string. Keys derived from values use
// this digest so they stay stable across tools.
func Hash(s string) string {
	h := md5.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
