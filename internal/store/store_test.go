package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotstrings/internal/bundle"
	"dotstrings/internal/localized"
)

func TestUpsertQuery(t *testing.T) {
	s := New(nil)
	str := localized.String{Key: "k", Value: "v", Language: "fr", Table: "Main", Comment: "c"}

	query, args, err := s.upsertQuery(str)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO strings_entries"))
	assert.Contains(t, query, "$5")
	assert.NotContains(t, query, "?")
	assert.Contains(t, query, "ON CONFLICT (language, table_name, string_key)")
	assert.Equal(t, []any{"fr", "Main", "k", "v", "c"}, args)
}

func TestListQuery(t *testing.T) {
	s := New(nil)

	query, args, err := s.listQuery("en", "Localizable")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT string_key, value, comment FROM strings_entries WHERE"))
	assert.True(t, strings.HasSuffix(query, "ORDER BY string_key"))
	assert.ElementsMatch(t, []any{"en", "Localizable"}, args)
}

func TestBundleRows(t *testing.T) {
	b := bundle.New(map[string]bundle.Tables{
		"fr": {
			"Two": {{Key: "t", Language: "fr", Table: "Two"}},
			"One": {{Key: "b", Language: "fr", Table: "One"}, {Key: "a", Language: "fr", Table: "One"}},
		},
		"en": {
			"One": {{Key: "x", Language: "en", Table: "One"}},
		},
	})

	var got []string
	for _, r := range bundleRows(b) {
		got = append(got, r.Language+"/"+r.Table+"/"+r.Key)
	}
	assert.Equal(t, []string{"en/One/x", "fr/One/b", "fr/One/a", "fr/Two/t"}, got)
	assert.Empty(t, bundleRows(bundle.New(nil)))
}

type fakeRow struct {
	values []string
	err    error
}

func (r fakeRow) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		*d.(*string) = r.values[i]
	}
	return nil
}

func (r fakeRow) Values() ([]any, error) { return nil, nil }

func (r fakeRow) RawValues() [][]byte { return nil }

func TestRowToString(t *testing.T) {
	toString := rowToString("fr", "Main")

	got, err := toString(fakeRow{values: []string{"hello", "Bonjour", "Greeting"}})
	require.NoError(t, err)
	assert.Equal(t, localized.String{
		Key: "hello", Value: "Bonjour", Comment: "Greeting", Language: "fr", Table: "Main",
	}, got)

	_, err = toString(fakeRow{err: errors.New("bad row")})
	assert.EqualError(t, err, "bad row")
}
