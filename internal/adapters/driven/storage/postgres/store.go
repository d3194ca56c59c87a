// Package postgres provides a PostgreSQL report store for shared
// deployments where several docfuse processes write to one database.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ReportStore = (*Store)(nil)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a PostgreSQL-backed report store. Reports are kept as JSONB
// next to denormalised summary columns.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn, verifies the connection and applies pending
// migrations.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres storage requires a DSN", domain.ErrInvalidInput)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	slices.Sort(names)

	for _, name := range names {
		var version int
		base := strings.TrimPrefix(name, "migrations/")
		if _, err := fmt.Sscanf(base, "%d_", &version); err != nil || version <= current {
			continue
		}
		script, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", base, err)
		}
		err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version)
			return err
		})
		if err != nil {
			return fmt.Errorf("executing migration %s: %w", base, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// Save stores or replaces a report.
func (s *Store) Save(ctx context.Context, report *domain.ProcessReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	summary := report.Summary()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO reports (id, document, document_type, engine_count, best_processor, quality_score, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			document = EXCLUDED.document,
			document_type = EXCLUDED.document_type,
			engine_count = EXCLUDED.engine_count,
			best_processor = EXCLUDED.best_processor,
			quality_score = EXCLUDED.quality_score,
			report = EXCLUDED.report,
			created_at = EXCLUDED.created_at
	`, report.ID, report.Document, string(report.DocumentType), summary.EngineCount,
		summary.BestProcessor, summary.QualityScore, payload, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.ProcessReport, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, "SELECT report FROM reports WHERE id = $1", id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	var report domain.ProcessReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshalling report: %w", err)
	}
	return &report, nil
}

// List returns report summaries, newest first. A limit of zero or less
// returns every report.
func (s *Store) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, document, engine_count, best_processor, quality_score, created_at
		FROM reports
		ORDER BY created_at DESC, id ASC
		LIMIT $1
	`, lim)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ReportSummary, error) {
		var summary domain.ReportSummary
		err := row.Scan(&summary.ID, &summary.Document, &summary.EngineCount,
			&summary.BestProcessor, &summary.QualityScore, &summary.CreatedAt)
		summary.CreatedAt = summary.CreatedAt.UTC()
		return summary, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning reports: %w", err)
	}
	if summaries == nil {
		summaries = []domain.ReportSummary{}
	}
	return summaries, nil
}

// Delete removes a report by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
