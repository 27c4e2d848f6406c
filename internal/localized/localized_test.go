package localized

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotstrings/internal/parser"
	"dotstrings/internal/textutil"
)

func TestDeriveKey(t *testing.T) {
	assert.Equal(t, textutil.Hash("Hello"), DeriveKey("Hello", ""))
	assert.Equal(t, textutil.Hash("Hello:greeting"), DeriveKey("Hello", "greeting"))
	assert.Equal(t, textutil.Hash("Say \"hi\"\nnow"), DeriveKey(`Say \"hi\"\nnow`, ""))
	assert.NotEqual(t, DeriveKey("Open", "verb"), DeriveKey("Open", "adjective"))
}

func TestNew(t *testing.T) {
	s := New("", "Hello", "en", DefaultTable, "Greeting", "")
	assert.Equal(t, DeriveKey("Hello", ""), s.Key)

	s = New("explicit", "Hello", "en", DefaultTable, "", "")
	assert.Equal(t, "explicit", s.Key)
}

func TestFromEntries(t *testing.T) {
	entries := []parser.Entry{
		{Key: "a", Value: "A", Comments: []string{"first", "second"}},
		{Key: "b", Value: "B"},
	}

	out := FromEntries(entries, "fr", "Main")
	require.Len(t, out, 2)
	assert.Equal(t, String{Key: "a", Value: "A", Language: "fr", Table: "Main", Comment: "first\nsecond"}, out[0])
	assert.Equal(t, "", out[1].Comment)

	assert.True(t, entries[0].Equal(out[0].Entry()))
	assert.True(t, entries[1].Equal(out[1].Entry()))
}

func TestTokens(t *testing.T) {
	s := String{Value: "%1$@ owns %2$lld items"}
	assert.Equal(t, []string{"%1$@", "%2$lld"}, s.Tokens())
}

func TestNSLocalizedFormat(t *testing.T) {
	s := String{Key: "k", Value: "Hello", Language: "en", Table: "Main", Comment: "Greeting"}
	out, err := s.NSLocalizedFormat()
	require.NoError(t, err)
	assert.Equal(t, `NSLocalizedStringWithDefaultValue(@"k", @"Main", @"", @"Hello", @"Greeting");`, out)

	s.Language = "fr"
	_, err = s.NSLocalizedFormat()
	assert.ErrorIs(t, err, ErrNotEnglish)
}
