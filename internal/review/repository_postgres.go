package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ids are UUID columns; anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

const pgSessionColumns = `
	id, owner_id, job_id, name, page_size, layout,
	items, decisions, archive_url, menu_id, created_at, updated_at
`

// --------------------------------------------------
// CREATE
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, s *Session) error {
	items, decisions, err := encodeColumns(s)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO review_sessions (`+pgSessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		s.ID, s.OwnerID, s.JobID, s.Name, s.PageSizeID, s.LayoutID,
		items, decisions, s.ArchiveURL, s.MenuID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// --------------------------------------------------
// GET
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Session, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	row := r.db.QueryRow(ctx, `
		SELECT `+pgSessionColumns+`
		FROM review_sessions
		WHERE id = $1
	`, id)

	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// --------------------------------------------------
// SAVE (full replace of mutable columns)
// --------------------------------------------------
func (r *PostgresRepository) Save(ctx context.Context, s *Session) error {
	if !validID(s.ID) {
		return ErrNotFound
	}

	items, decisions, err := encodeColumns(s)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx, `
		UPDATE review_sessions
		SET job_id = $2,
		    name = $3,
		    page_size = $4,
		    layout = $5,
		    items = $6,
		    decisions = $7,
		    archive_url = $8,
		    menu_id = $9,
		    updated_at = $10
		WHERE id = $1
	`,
		s.ID, s.JobID, s.Name, s.PageSizeID, s.LayoutID,
		items, decisions, s.ArchiveURL, s.MenuID, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// LIST
// --------------------------------------------------
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+pgSessionColumns+`
		FROM review_sessions
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+pgSessionColumns+`
		FROM review_sessions
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

// --------------------------------------------------
// DELETE
// --------------------------------------------------
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}

	cmd, err := r.db.Exec(ctx, `DELETE FROM review_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var (
		s         Session
		items     []byte
		decisions []byte
	)

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.JobID, &s.Name, &s.PageSizeID, &s.LayoutID,
		&items, &decisions, &s.ArchiveURL, &s.MenuID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeColumns(&s, items, decisions); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", s.ID, err)
	}
	return &s, nil
}

func collectSessions(rows pgx.Rows) ([]*Session, error) {
	defer rows.Close()

	out := []*Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
