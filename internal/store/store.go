// Package store persists loaded bundles in PostgreSQL so tables from many
// roots can be queried together.
package store

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"dotstrings/internal/bundle"
	"dotstrings/internal/localized"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const tableName = "strings_entries"

const schema = `
CREATE TABLE IF NOT EXISTS strings_entries (
	language   TEXT NOT NULL,
	table_name TEXT NOT NULL,
	string_key TEXT NOT NULL,
	value      TEXT NOT NULL,
	comment    TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (language, table_name, string_key)
)`

// Store reads and writes localized strings in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	sq   sq.StatementBuilderType
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		sq:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return New(pool), nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the strings table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PushBundle upserts every string of b in one transaction and returns the
// number of rows written. Within a table a repeated key keeps its last value.
func (s *Store) PushBundle(ctx context.Context, b *bundle.Bundle) (int, error) {
	rows := bundleRows(b)
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, str := range rows {
		query, args, err := s.upsertQuery(str)
		if err != nil {
			return 0, fmt.Errorf("build upsert: %w", err)
		}
		batch.Queue(query, args...)
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, fmt.Errorf("push bundle: %w", err)
	}

	log.Info().Int("rows", len(rows)).Msg("Stored bundle")
	return len(rows), nil
}

// ListTable returns one table of one language ordered by key.
func (s *Store) ListTable(ctx context.Context, language, table string) ([]localized.String, error) {
	query, args, err := s.listQuery(language, table)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query table %s/%s: %w", language, table, err)
	}

	out, err := pgx.CollectRows(rows, rowToString(language, table))
	if err != nil {
		return nil, fmt.Errorf("scan table %s/%s: %w", language, table, err)
	}
	return out, nil
}

// rowToString scans the columns selected by listQuery.
func rowToString(language, table string) pgx.RowToFunc[localized.String] {
	return func(row pgx.CollectableRow) (localized.String, error) {
		str := localized.String{Language: language, Table: table}
		err := row.Scan(&str.Key, &str.Value, &str.Comment)
		return str, err
	}
}

func (s *Store) upsertQuery(str localized.String) (string, []any, error) {
	return s.sq.Insert(tableName).
		Columns("language", "table_name", "string_key", "value", "comment").
		Values(str.Language, str.Table, str.Key, str.Value, str.Comment).
		Suffix("ON CONFLICT (language, table_name, string_key) DO UPDATE SET value = EXCLUDED.value, comment = EXCLUDED.comment, updated_at = now()").
		ToSql()
}

func (s *Store) listQuery(language, table string) (string, []any, error) {
	return s.sq.Select("string_key", "value", "comment").
		From(tableName).
		Where(sq.Eq{"language": language, "table_name": table}).
		OrderBy("string_key").
		ToSql()
}

// bundleRows flattens b ordered by language, then table, then source order.
func bundleRows(b *bundle.Bundle) []localized.String {
	var rows []localized.String
	for _, language := range b.Languages() {
		tables := b.TablesForLanguage(language)
		for _, name := range slices.Sorted(maps.Keys(tables)) {
			rows = append(rows, tables[name]...)
		}
	}
	return rows
}
