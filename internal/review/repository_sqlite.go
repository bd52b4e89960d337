package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqlite stores timestamps as fixed-width UTC text so ORDER BY sorts them.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

type SQLiteRepository struct {
	db *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type sessionRow struct {
	ID         string `db:"id"`
	OwnerID    string `db:"owner_id"`
	JobID      string `db:"job_id"`
	Name       string `db:"name"`
	PageSizeID string `db:"page_size"`
	LayoutID   string `db:"layout"`
	Items      string `db:"items"`
	Decisions  string `db:"decisions"`
	ArchiveURL string `db:"archive_url"`
	MenuID     string `db:"menu_id"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

func toRow(s *Session) (sessionRow, error) {
	items, decisions, err := encodeColumns(s)
	if err != nil {
		return sessionRow{}, err
	}
	return sessionRow{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		JobID:      s.JobID,
		Name:       s.Name,
		PageSizeID: s.PageSizeID,
		LayoutID:   s.LayoutID,
		Items:      string(items),
		Decisions:  string(decisions),
		ArchiveURL: s.ArchiveURL,
		MenuID:     s.MenuID,
		CreatedAt:  s.CreatedAt.UTC().Format(sqliteTime),
		UpdatedAt:  s.UpdatedAt.UTC().Format(sqliteTime),
	}, nil
}

func (row sessionRow) toSession() (*Session, error) {
	s := &Session{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		JobID:      row.JobID,
		Name:       row.Name,
		PageSizeID: row.PageSizeID,
		LayoutID:   row.LayoutID,
		ArchiveURL: row.ArchiveURL,
		MenuID:     row.MenuID,
	}

	var err error
	if s.CreatedAt, err = time.Parse(sqliteTime, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", row.ID, err)
	}
	if s.UpdatedAt, err = time.Parse(sqliteTime, row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", row.ID, err)
	}
	if err := decodeColumns(s, []byte(row.Items), []byte(row.Decisions)); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", row.ID, err)
	}
	return s, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *Session) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO review_sessions (
			id, owner_id, job_id, name, page_size, layout,
			items, decisions, archive_url, menu_id, created_at, updated_at
		) VALUES (
			:id, :owner_id, :job_id, :name, :page_size, :layout,
			:items, :decisions, :archive_url, :menu_id, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Session, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM review_sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toSession()
}

func (r *SQLiteRepository) Save(ctx context.Context, s *Session) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}

	const q = `
		UPDATE review_sessions
		SET job_id = :job_id,
		    name = :name,
		    page_size = :page_size,
		    layout = :layout,
		    items = :items,
		    decisions = :decisions,
		    archive_url = :archive_url,
		    menu_id = :menu_id,
		    updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Session, error) {
	return r.list(ctx, `SELECT * FROM review_sessions WHERE owner_id = ? ORDER BY updated_at DESC`, ownerID)
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*Session, error) {
	return r.list(ctx, `SELECT * FROM review_sessions ORDER BY updated_at DESC`)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM review_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, q string, args ...any) ([]*Session, error) {
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	out := make([]*Session, 0, len(rows))
	for _, row := range rows {
		s, err := row.toSession()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
