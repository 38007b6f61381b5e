package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		company_name  TEXT NOT NULL,
		period_end    DATE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id              UUID PRIMARY KEY,
		project_id      UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		account_code    TEXT NOT NULL,
		account_name    TEXT NOT NULL DEFAULT '',
		amount          NUMERIC NOT NULL,
		adjustments     NUMERIC,
		final_amount    NUMERIC NOT NULL,
		classification  TEXT NOT NULL,
		report_section  TEXT NOT NULL,
		is_manual       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS entries_project_code ON entries(project_id, account_code)`,
}

// Postgres is a Store backed by a PostgreSQL connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the schema if missing.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

// validID rejects ids that would make the uuid columns fail to parse.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Postgres) CreateProject(ctx context.Context, info model.ProjectInfo) (model.Project, error) {
	if err := info.Validate(); err != nil {
		return model.Project{}, err
	}
	ts := now()
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, name, company_name, period_end, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`,
		id, info.Name, info.CompanyName, info.PeriodEnd, ts)
	if err != nil {
		return model.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return s.GetProject(ctx, id)
}

const postgresProjectColumns = `p.id::text, p.name, p.company_name, p.period_end, p.created_at, p.updated_at`

func scanPostgresProject(row pgx.Row, extra ...any) (model.Project, error) {
	var p model.Project
	dest := append([]any{&p.ID, &p.Name, &p.CompanyName, &p.PeriodEnd, &p.CreatedAt, &p.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Project{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (s *Postgres) GetProject(ctx context.Context, id string) (model.Project, error) {
	if !validID(id) {
		return model.Project{}, notFound("project", id)
	}
	row := s.pool.QueryRow(ctx, `SELECT `+postgresProjectColumns+` FROM projects p WHERE p.id = $1`, id)
	p, err := scanPostgresProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Project{}, notFound("project", id)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

func (s *Postgres) ListProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+postgresProjectColumns+`, COUNT(e.id)
		FROM projects p LEFT JOIN entries e ON e.project_id = p.id
		GROUP BY p.id
		ORDER BY p.updated_at DESC, p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []model.ProjectSummary
	for rows.Next() {
		var count int
		p, err := scanPostgresProject(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		out = append(out, model.ProjectSummary{Project: p, EntryCount: count})
	}
	return out, rows.Err()
}

// lockProject takes the project row lock that serializes entry writers.
func lockProject(ctx context.Context, tx pgx.Tx, id string) error {
	if !validID(id) {
		return notFound("project", id)
	}
	var got string
	err := tx.QueryRow(ctx, `SELECT id::text FROM projects WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound("project", id)
	}
	if err != nil {
		return fmt.Errorf("locking project: %w", err)
	}
	return nil
}

const postgresInsertEntry = `
	INSERT INTO entries (id, project_id, position, account_code, account_name, amount, adjustments,
		final_amount, classification, report_section, is_manual, created_at)
	VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9, $10, $11, $12)`

func entryArgs(projectID string, pos int, e model.ClassifiedEntry, ts time.Time) []any {
	return []any{
		e.ID, projectID, pos, e.AccountCode, e.AccountName, e.Amount.String(), nullText(e.Adjustments),
		e.FinalAmount.String(), string(e.Classification), string(e.Section), e.Manual, ts,
	}
}

func (s *Postgres) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func (s *Postgres) ReplaceEntries(ctx context.Context, projectID string, entries []model.ClassifiedEntry) (int, error) {
	for _, e := range entries {
		if err := checkClassification(e.Classification); err != nil {
			return 0, err
		}
	}
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockProject(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("deleting entries: %w", err)
		}

		ts := now()
		batch := &pgx.Batch{}
		for i, e := range entries {
			e.ID = uuid.NewString()
			batch.Queue(postgresInsertEntry, entryArgs(projectID, i, e.WithClassification(e.Classification), ts)...)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range entries {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("inserting entry %d: %w", i+1, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("inserting entries: %w", err)
		}

		_, err := tx.Exec(ctx, `UPDATE projects SET updated_at = $1 WHERE id = $2`, ts, projectID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Postgres) ListEntries(ctx context.Context, projectID string) ([]model.ClassifiedEntry, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, account_code, account_name, amount::text, adjustments::text, final_amount::text,
			classification, is_manual, position
		FROM entries WHERE project_id = $1
		ORDER BY account_code COLLATE "C", position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var out []model.ClassifiedEntry
	for rows.Next() {
		var sc entryScan
		if err := rows.Scan(&sc.id, &sc.code, &sc.name, &sc.amount, &sc.adjustments, &sc.final, &sc.classification, &sc.manual, &sc.position); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e, err := sc.entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) UpdateClassification(ctx context.Context, entryID string, c model.Classification) error {
	return s.UpdateClassifications(ctx, []ClassificationUpdate{{ID: entryID, Classification: c}})
}

func (s *Postgres) UpdateClassifications(ctx context.Context, updates []ClassificationUpdate) error {
	for _, u := range updates {
		if err := checkClassification(u.Classification); err != nil {
			return err
		}
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		for _, u := range updates {
			if !validID(u.ID) {
				return notFound("entry", u.ID)
			}
			tag, err := tx.Exec(ctx, `UPDATE entries SET classification = $1, report_section = $2 WHERE id = $3`,
				string(u.Classification), string(u.Classification.Section()), u.ID)
			if err != nil {
				return fmt.Errorf("updating entry %s: %w", u.ID, err)
			}
			if tag.RowsAffected() == 0 {
				return notFound("entry", u.ID)
			}
		}
		return nil
	})
}

func (s *Postgres) AddEntry(ctx context.Context, projectID string, e model.ClassifiedEntry) (model.ClassifiedEntry, error) {
	e, err := manual(e)
	if err != nil {
		return model.ClassifiedEntry{}, err
	}
	e.ID = uuid.NewString()
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockProject(ctx, tx, projectID); err != nil {
			return err
		}
		var pos int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM entries WHERE project_id = $1`, projectID).Scan(&pos); err != nil {
			return fmt.Errorf("reading next position: %w", err)
		}
		e.Position = pos
		ts := now()
		if _, err := tx.Exec(ctx, postgresInsertEntry, entryArgs(projectID, pos, e, ts)...); err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
		_, err := tx.Exec(ctx, `UPDATE projects SET updated_at = $1 WHERE id = $2`, ts, projectID)
		return err
	})
	if err != nil {
		return model.ClassifiedEntry{}, err
	}
	return e, nil
}

func (s *Postgres) DeleteEntry(ctx context.Context, entryID string) error {
	if !validID(entryID) {
		return notFound("entry", entryID)
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("entry", entryID)
	}
	return nil
}
