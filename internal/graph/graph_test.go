package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotstrings/internal/bundle"
)

func TestTranslationRows(t *testing.T) {
	b := bundle.New(map[string]bundle.Tables{
		"fr": {"Main": {{Key: "hello", Value: "Bonjour", Language: "fr", Table: "Main", Comment: "Greeting"}}},
		"en": {"Main": {{Key: "hello", Value: "Hello", Language: "en", Table: "Main"}}},
	})

	rows := translationRows(b)
	require.Len(t, rows, 2)

	first := rows[0].(map[string]any)
	assert.Equal(t, "en/Main/hello", first["id"])
	assert.Equal(t, "Main/hello", first["keyId"])
	assert.Equal(t, "Hello", first["value"])

	second := rows[1].(map[string]any)
	assert.Equal(t, "fr", second["language"])
	assert.Equal(t, first["keyId"], second["keyId"])
	assert.Equal(t, "Greeting", second["comment"])
}

func TestTranslationRows_Empty(t *testing.T) {
	assert.Empty(t, translationRows(bundle.New(map[string]bundle.Tables{"en": {}})))
}

func TestCoverage_Missing(t *testing.T) {
	c := Coverage{Language: "de", Table: "Main", Translated: 3, Total: 5}
	assert.Equal(t, 2, c.Missing())
	assert.Equal(t, 7, toInt(int64(7)))
	assert.Equal(t, 0, toInt("7"))
}


func TestKeysFromRecords(t *testing.T) {
	records := []*neo4j.Record{
		{Keys: []string{"key"}, Values: []any{"bye"}},
		{Keys: []string{"key"}, Values: []any{"hello"}},
	}
	assert.Equal(t, []string{"bye", "hello"}, keysFromRecords(records))
	assert.Empty(t, keysFromRecords(nil))
}

func TestCoverageFromRecords(t *testing.T) {
	keys := []string{"language", "table", "translated", "total"}
	records := []*neo4j.Record{
		{Keys: keys, Values: []any{"de", "Main", int64(1), int64(3)}},
		{Keys: keys, Values: []any{"en", "Main", int64(3), int64(3)}},
	}

	got := coverageFromRecords(records)
	require.Len(t, got, 2)
	assert.Equal(t, Coverage{Language: "de", Table: "Main", Translated: 1, Total: 3}, got[0])
	assert.Equal(t, 2, got[0].Missing())
	assert.Equal(t, 0, got[1].Missing())
}
