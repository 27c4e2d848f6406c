package graph

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"dotstrings/internal/bundle"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// exportBatchSize bounds how many translations are sent per UNWIND.
const exportBatchSize = 500

// GraphBuilder writes bundles into the Neo4j catalog graph.
//
// The graph has one (:Language) per language code, one (:Table) per table
// name, one (:LocalizedKey) per table and key, and one (:Translation) per
// language, table and key:
//
//	(:Language)-[:HAS_TABLE]->(:Table)-[:DEFINES]->(:LocalizedKey)
//	(:LocalizedKey)-[:TRANSLATED_AS]->(:Translation)-[:IN_LANGUAGE]->(:Language)
type GraphBuilder struct {
	driver neo4j.DriverWithContext
}

// NewGraphBuilder creates a new graph builder.
func NewGraphBuilder(driver neo4j.DriverWithContext) *GraphBuilder {
	return &GraphBuilder{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (gb *GraphBuilder) EnsureSchema(ctx context.Context) error {
	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (l:Language) REQUIRE l.code IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Table) REQUIRE t.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (k:LocalizedKey) REQUIRE k.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Translation) REQUIRE t.id IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

const exportQuery = `
	UNWIND $rows AS row
	MERGE (l:Language {code: row.language})
	MERGE (t:Table {name: row.table})
	MERGE (l)-[:HAS_TABLE]->(t)
	MERGE (k:LocalizedKey {id: row.keyId})
	SET k.key = row.key
	MERGE (t)-[:DEFINES]->(k)
	MERGE (tr:Translation {id: row.id})
	SET tr.value = row.value, tr.comment = row.comment
	MERGE (k)-[:TRANSLATED_AS]->(tr)
	MERGE (tr)-[:IN_LANGUAGE]->(l)
`

// ExportBundle merges every string of b into the graph and returns the
// number of translations written.
func (gb *GraphBuilder) ExportBundle(ctx context.Context, b *bundle.Bundle) (int, error) {
	rows := translationRows(b)
	if len(rows) == 0 {
		return 0, nil
	}

	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for chunk := range slices.Chunk(rows, exportBatchSize) {
		if _, err := session.Run(ctx, exportQuery, map[string]any{"rows": chunk}); err != nil {
			return 0, fmt.Errorf("export translations: %w", err)
		}
	}

	log.Info().
		Int("languages", len(b.Languages())).
		Int("translations", len(rows)).
		Msg("Exported bundle to graph")
	return len(rows), nil
}

func keyID(table, key string) string {
	return table + "/" + key
}

func translationID(language, table, key string) string {
	return language + "/" + keyID(table, key)
}

// translationRows flattens b into UNWIND parameters ordered by language and
// table. A key repeated within one table keeps its last value.
func translationRows(b *bundle.Bundle) []any {
	var rows []any
	for _, language := range b.Languages() {
		tables := b.TablesForLanguage(language)
		for _, table := range slices.Sorted(maps.Keys(tables)) {
			for _, s := range tables[table] {
				rows = append(rows, map[string]any{
					"id":       translationID(language, table, s.Key),
					"keyId":    keyID(table, s.Key),
					"language": language,
					"table":    table,
					"key":      s.Key,
					"value":    s.Value,
					"comment":  s.Comment,
				})
			}
		}
	}
	return rows
}
