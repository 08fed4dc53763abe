// Package store persists the hero and link tables. Two backends implement
// schemas.Storage: a pair of CSV files and a PostgreSQL database.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	sqlCreateSchema = `
        CREATE TABLE IF NOT EXISTS superheroes (
            id         BIGINT PRIMARY KEY,
            name       TEXT NOT NULL UNIQUE,
            created_at DATE NOT NULL
        );
        CREATE TABLE IF NOT EXISTS links (
            source BIGINT NOT NULL,
            target BIGINT NOT NULL
        );
    `
	sqlSelectHeroes = `SELECT id, name, created_at FROM superheroes ORDER BY id ASC;`
	sqlSelectLinks  = `SELECT source, target FROM links;`
	sqlClearLinks   = `DELETE FROM links;`
	sqlClearHeroes  = `DELETE FROM superheroes;`
)

// PostgresStore keeps the tables in PostgreSQL. Save replaces both tables
// inside one transaction, so the pair is always persisted together.
type PostgresStore struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*PostgresStore, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{
		pool: pool,
		log:  logger.Named("store.postgres"),
	}, nil
}

// EnsureSchema creates the two tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, sqlCreateSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load reads both tables.
func (s *PostgresStore) Load(ctx context.Context) (schemas.Tables, error) {
	heroes, err := s.loadHeroes(ctx)
	if err != nil {
		return schemas.Tables{}, fmt.Errorf("%w: %w", schemas.ErrIOFailure, err)
	}
	links, err := s.loadLinks(ctx)
	if err != nil {
		return schemas.Tables{}, fmt.Errorf("%w: %w", schemas.ErrIOFailure, err)
	}
	return schemas.Tables{Heroes: heroes, Links: links}, nil
}

func (s *PostgresStore) loadHeroes(ctx context.Context) ([]schemas.Hero, error) {
	rows, err := s.pool.Query(ctx, sqlSelectHeroes)
	if err != nil {
		return nil, fmt.Errorf("failed to query superheroes: %w", err)
	}
	defer rows.Close()

	var heroes []schemas.Hero
	for rows.Next() {
		var (
			h       schemas.Hero
			created time.Time
		)
		if err := rows.Scan(&h.ID, &h.Name, &created); err != nil {
			return nil, fmt.Errorf("failed to scan superhero row: %w", err)
		}
		h.CreatedAt = schemas.DateOf(created.UTC())
		heroes = append(heroes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return heroes, nil
}

func (s *PostgresStore) loadLinks(ctx context.Context) ([]schemas.Link, error) {
	rows, err := s.pool.Query(ctx, sqlSelectLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []schemas.Link
	for rows.Next() {
		var l schemas.Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return links, nil
}

// Save replaces the stored tables with the given ones.
func (s *PostgresStore) Save(ctx context.Context, tables schemas.Tables) error {
	if err := s.save(ctx, tables); err != nil {
		return fmt.Errorf("%w: %w", schemas.ErrIOFailure, err)
	}
	return nil
}

func (s *PostgresStore) save(ctx context.Context, tables schemas.Tables) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after a successful commit reports ErrTxClosed; that is expected.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, sqlClearLinks); err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}
	if _, err := tx.Exec(ctx, sqlClearHeroes); err != nil {
		return fmt.Errorf("failed to clear superheroes: %w", err)
	}
	if err := copyHeroes(ctx, tx, tables.Heroes); err != nil {
		return err
	}
	if err := copyLinks(ctx, tx, tables.Links); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func copyHeroes(ctx context.Context, tx pgx.Tx, heroes []schemas.Hero) error {
	if len(heroes) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(heroes))
	for i, h := range heroes {
		rows[i] = []interface{}{h.ID, h.Name, h.CreatedAt.Time()}
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"superheroes"}, schemas.HeroColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy superheroes: %w", err)
	}
	if int(copied) != len(heroes) {
		return fmt.Errorf("mismatch in copied superheroes count: expected %d, got %d", len(heroes), copied)
	}
	return nil
}

func copyLinks(ctx context.Context, tx pgx.Tx, links []schemas.Link) error {
	if len(links) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(links))
	for i, l := range links {
		rows[i] = []interface{}{l.Source, l.Target}
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"links"}, schemas.LinkColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy links: %w", err)
	}
	if int(copied) != len(links) {
		return fmt.Errorf("mismatch in copied links count: expected %d, got %d", len(links), copied)
	}
	return nil
}
