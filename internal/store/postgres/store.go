// Package postgres provides the Postgres-backed document store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radarlegislativo/ingest/internal/document"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

const documentColumns = `titulo, url, tipo_conteudo, categoria, fonte, tipo_radar,
	data_publicacao, resumo, entidades, numero, autores, estado, hora,
	local_evento, notificado, created_at`

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store persists documents in the documentos table.
type Store struct {
	pool dbPool
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool dbPool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("document store is not configured")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Insert persists a document. A URL uniqueness violation surfaces as
// document.ErrAlreadyExists so the caller can treat reruns as no-ops.
func (s *Store) Insert(ctx context.Context, doc *document.Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	if doc.URL == "" {
		return fmt.Errorf("document url is required")
	}
	query := `INSERT INTO documentos (` + documentColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := s.pool.Exec(ctx, query,
		doc.Title,
		doc.URL,
		doc.ContentKind,
		doc.Topic,
		doc.Source,
		doc.Channel,
		doc.PublishedAt,
		doc.Summary,
		doc.Entities,
		doc.Number,
		doc.Authors,
		doc.Status,
		doc.EventTime,
		doc.EventVenue,
		doc.Notified,
		doc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return document.ErrAlreadyExists
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// FindByURL returns the document stored under url, or (nil, nil) when absent.
func (s *Store) FindByURL(ctx context.Context, url string) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documentos WHERE url = $1`
	row := s.pool.QueryRow(ctx, query, url)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find document by url: %w", err)
	}
	return doc, nil
}

// List returns documents matching the filters, newest publication first.
func (s *Store) List(ctx context.Context, f document.ListFilters) ([]document.Document, error) {
	where, args := buildFilters(f)
	query := `SELECT ` + documentColumns + ` FROM documentos` + where +
		` ORDER BY data_publicacao DESC, created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Count returns the number of documents matching the filters.
func (s *Store) Count(ctx context.Context, f document.ListFilters) (int, error) {
	where, args := buildFilters(f)
	query := `SELECT COUNT(*) FROM documentos` + where
	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// ListUnnotified returns up to limit documents whose notification is pending,
// oldest first.
func (s *Store) ListUnnotified(ctx context.Context, limit int) ([]document.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + documentColumns + ` FROM documentos
	WHERE notificado = FALSE ORDER BY created_at ASC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unnotified documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// MarkNotified flips the notification flag for the given URLs.
func (s *Store) MarkNotified(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	query := `UPDATE documentos SET notificado = TRUE WHERE url = ANY($1)`
	if _, err := s.pool.Exec(ctx, query, urls); err != nil {
		return fmt.Errorf("mark documents notified: %w", err)
	}
	return nil
}

func buildFilters(f document.ListFilters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.Channel != "" {
		add("tipo_radar", f.Channel)
	}
	if f.Topic != "" {
		add("categoria", f.Topic)
	}
	if f.ContentKind != "" {
		add("tipo_conteudo", f.ContentKind)
	}
	if f.Source != "" {
		add("fonte", f.Source)
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		clauses = append(clauses, fmt.Sprintf("data_publicacao >= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var doc document.Document
	err := row.Scan(
		&doc.Title,
		&doc.URL,
		&doc.ContentKind,
		&doc.Topic,
		&doc.Source,
		&doc.Channel,
		&doc.PublishedAt,
		&doc.Summary,
		&doc.Entities,
		&doc.Number,
		&doc.Authors,
		&doc.Status,
		&doc.EventTime,
		&doc.EventVenue,
		&doc.Notified,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func collectDocuments(rows pgx.Rows) ([]document.Document, error) {
	var docs []document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}
