package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Coverage is how many keys of a table one language translates.
type Coverage struct {
	Language   string
	Table      string
	Translated int
	Total      int
}

// Missing is the number of keys the language does not translate.
func (c Coverage) Missing() int {
	return c.Total - c.Translated
}

// GraphQuerier reads the catalog graph.
type GraphQuerier struct {
	driver neo4j.DriverWithContext
}

// NewGraphQuerier creates a new graph querier.
func NewGraphQuerier(driver neo4j.DriverWithContext) *GraphQuerier {
	return &GraphQuerier{driver: driver}
}

// MissingKeys returns the keys table defines that have no translation in
// language, sorted.
func (gq *GraphQuerier) MissingKeys(ctx context.Context, table, language string) ([]string, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (:Table {name: $table})-[:DEFINES]->(k:LocalizedKey)
		WHERE NOT EXISTS {
			MATCH (k)-[:TRANSLATED_AS]->(:Translation)-[:IN_LANGUAGE]->(:Language {code: $language})
		}
		RETURN k.key AS key
		ORDER BY key
	`, map[string]any{"table": table, "language": language})
	if err != nil {
		return nil, fmt.Errorf("query missing keys: %w", err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("read missing keys: %w", err)
	}
	return keysFromRecords(records), nil
}

// Coverage reports translation coverage for every language and table pair.
func (gq *GraphQuerier) Coverage(ctx context.Context) ([]Coverage, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (l:Language), (t:Table)-[:DEFINES]->(k:LocalizedKey)
		OPTIONAL MATCH (k)-[:TRANSLATED_AS]->(tr:Translation)-[:IN_LANGUAGE]->(l)
		RETURN l.code AS language, t.name AS table, count(DISTINCT tr) AS translated, count(DISTINCT k) AS total
		ORDER BY language, table
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("read coverage: %w", err)
	}
	out := coverageFromRecords(records)

	log.Debug().Int("rows", len(out)).Msg("Graph coverage query complete")
	return out, nil
}

func keysFromRecords(records []*neo4j.Record) []string {
	keys := make([]string, 0, len(records))
	for _, record := range records {
		key, _ := record.Get("key")
		keys = append(keys, fmt.Sprintf("%v", key))
	}
	return keys
}

func coverageFromRecords(records []*neo4j.Record) []Coverage {
	out := make([]Coverage, 0, len(records))
	for _, record := range records {
		language, _ := record.Get("language")
		table, _ := record.Get("table")
		translated, _ := record.Get("translated")
		total, _ := record.Get("total")

		out = append(out, Coverage{
			Language:   fmt.Sprintf("%v", language),
			Table:      fmt.Sprintf("%v", table),
			Translated: toInt(translated),
			Total:      toInt(total),
		})
	}
	return out
}

func toInt(v any) int {
	if n, ok := v.(int64); ok {
		return int(n)
	}
	return 0
}
