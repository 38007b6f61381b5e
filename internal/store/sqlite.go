package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	company_name  TEXT NOT NULL,
	period_end    TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	id              TEXT PRIMARY KEY,
	project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	account_code    TEXT NOT NULL,
	account_name    TEXT NOT NULL DEFAULT '',
	amount          TEXT NOT NULL,
	adjustments     TEXT,
	final_amount    TEXT NOT NULL,
	classification  TEXT NOT NULL,
	report_section  TEXT NOT NULL,
	is_manual       INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS entries_project_code ON entries(project_id, account_code);
`

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite is a Store in a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection serializes writers, including entry replacement.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func now() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func (s *SQLite) CreateProject(ctx context.Context, info model.ProjectInfo) (model.Project, error) {
	if err := info.Validate(); err != nil {
		return model.Project{}, err
	}
	ts := now()
	p := model.Project{ID: uuid.NewString(), ProjectInfo: info, CreatedAt: ts, UpdatedAt: ts}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, company_name, period_end, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CompanyName, p.PeriodEnd.Format(model.DateLayout), formatTime(ts), formatTime(ts))
	if err != nil {
		return model.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return s.GetProject(ctx, p.ID)
}

const sqliteProjectColumns = `p.id, p.name, p.company_name, p.period_end, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProject(row rowScanner, extra ...any) (model.Project, error) {
	var p model.Project
	var periodEnd, created, updated string
	dest := append([]any{&p.ID, &p.Name, &p.CompanyName, &periodEnd, &created, &updated}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Project{}, err
	}
	var err error
	if p.PeriodEnd, err = time.Parse(model.DateLayout, periodEnd); err != nil {
		return model.Project{}, fmt.Errorf("project %s period end: %w", p.ID, err)
	}
	if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return model.Project{}, fmt.Errorf("project %s created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return model.Project{}, fmt.Errorf("project %s updated_at: %w", p.ID, err)
	}
	return p, nil
}

func (s *SQLite) GetProject(ctx context.Context, id string) (model.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteProjectColumns+` FROM projects p WHERE p.id = ?`, id)
	p, err := scanSQLiteProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, notFound("project", id)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

func (s *SQLite) ListProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqliteProjectColumns+`, COUNT(e.id)
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
		p, err := scanSQLiteProject(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		out = append(out, model.ProjectSummary{Project: p, EntryCount: count})
	}
	return out, rows.Err()
}

func projectExists(ctx context.Context, tx *sql.Tx, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("project", id)
	}
	if err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	return nil
}

func touchProject(ctx context.Context, tx *sql.Tx, id string, ts time.Time) error {
	if _, err := tx.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, formatTime(ts), id); err != nil {
		return fmt.Errorf("touching project: %w", err)
	}
	return nil
}

const sqliteInsertEntry = `
	INSERT INTO entries (id, project_id, position, account_code, account_name, amount, adjustments,
		final_amount, classification, report_section, is_manual, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertSQLiteEntry(ctx context.Context, tx *sql.Tx, projectID string, pos int, e model.ClassifiedEntry, ts time.Time) error {
	_, err := tx.ExecContext(ctx, sqliteInsertEntry,
		e.ID, projectID, pos, e.AccountCode, e.AccountName, e.Amount.String(), nullText(e.Adjustments),
		e.FinalAmount.String(), string(e.Classification), string(e.Section), e.Manual, formatTime(ts))
	return err
}

func (s *SQLite) ReplaceEntries(ctx context.Context, projectID string, entries []model.ClassifiedEntry) (int, error) {
	for _, e := range entries {
		if err := checkClassification(e.Classification); err != nil {
			return 0, err
		}
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("deleting entries: %w", err)
		}
		ts := now()
		for i, e := range entries {
			e.ID = uuid.NewString()
			if err := insertSQLiteEntry(ctx, tx, projectID, i, e.WithClassification(e.Classification), ts); err != nil {
				return fmt.Errorf("inserting entry %d: %w", i+1, err)
			}
		}
		return touchProject(ctx, tx, projectID, ts)
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *SQLite) ListEntries(ctx context.Context, projectID string) ([]model.ClassifiedEntry, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_code, account_name, amount, adjustments, final_amount, classification, is_manual, position
		FROM entries WHERE project_id = ?
		ORDER BY account_code, position`, projectID)
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

func updateSQLiteClassification(ctx context.Context, tx *sql.Tx, id string, c model.Classification) error {
	res, err := tx.ExecContext(ctx, `UPDATE entries SET classification = ?, report_section = ? WHERE id = ?`,
		string(c), string(c.Section()), id)
	if err != nil {
		return fmt.Errorf("updating entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating entry %s: %w", id, err)
	}
	if n == 0 {
		return notFound("entry", id)
	}
	return nil
}

func (s *SQLite) UpdateClassification(ctx context.Context, entryID string, c model.Classification) error {
	return s.UpdateClassifications(ctx, []ClassificationUpdate{{ID: entryID, Classification: c}})
}

func (s *SQLite) UpdateClassifications(ctx context.Context, updates []ClassificationUpdate) error {
	for _, u := range updates {
		if err := checkClassification(u.Classification); err != nil {
			return err
		}
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, u := range updates {
			if err := updateSQLiteClassification(ctx, tx, u.ID, u.Classification); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLite) AddEntry(ctx context.Context, projectID string, e model.ClassifiedEntry) (model.ClassifiedEntry, error) {
	e, err := manual(e)
	if err != nil {
		return model.ClassifiedEntry{}, err
	}
	e.ID = uuid.NewString()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		var pos int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM entries WHERE project_id = ?`, projectID).Scan(&pos); err != nil {
			return fmt.Errorf("reading next position: %w", err)
		}
		e.Position = pos
		ts := now()
		if err := insertSQLiteEntry(ctx, tx, projectID, pos, e, ts); err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
		return touchProject(ctx, tx, projectID, ts)
	})
	if err != nil {
		return model.ClassifiedEntry{}, err
	}
	return e, nil
}

func (s *SQLite) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if n == 0 {
		return notFound("entry", entryID)
	}
	return nil
}
