// Package sqlite provides a file-backed store adapter, the durable seam
// behind store.Store for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

type sqliteStore struct{ db *sql.DB }

// New opens the database at path and returns a store backed by it.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// NewWithDB allows wiring with an existing connection (used by the factory
// and by tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Users() store.Users       { return &users{db: s.db} }
func (s *sqliteStore) Sessions() store.Sessions { return &sessions{db: s.db} }
func (s *sqliteStore) Dreams() store.Dreams     { return &dreams{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := time.Now().UTC()
	res, err := u.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, created_at) VALUES (?,?,?,?)`,
		m.Email, m.PasswordHash, m.Name, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, model.ErrDuplicateEmail
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (u *users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := u.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &out.Name, &out.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// --- Sessions ---

type sessions struct{ db *sql.DB }

func (se *sessions) Create(ctx context.Context, token string) (*model.Session, error) {
	now := time.Now().UTC()
	if _, err := se.db.ExecContext(ctx,
		`INSERT INTO sessions (token, created_at) VALUES (?,?)`, token, now); err != nil {
		return nil, err
	}
	return &model.Session{Token: token, CreatedAt: now}, nil
}

func (se *sessions) Get(ctx context.Context, token string) (*model.Session, error) {
	var out model.Session
	row := se.db.QueryRowContext(ctx,
		`SELECT token, user_id, guest_usage_count, user_usage_count, created_at FROM sessions WHERE token = ?`, token)
	if err := row.Scan(&out.Token, &out.UserID, &out.GuestUsageCount, &out.UserUsageCount, &out.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (se *sessions) AttachUser(ctx context.Context, token string, userID int64) error {
	res, err := se.db.ExecContext(ctx,
		`UPDATE sessions SET user_id = ? WHERE token = ?`, userID, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (se *sessions) RecordUsage(ctx context.Context, token string) (int, error) {
	// Single statement so the read-modify-write cannot interleave.
	row := se.db.QueryRowContext(ctx, `
        UPDATE sessions SET
            guest_usage_count = guest_usage_count + (CASE WHEN user_id IS NULL THEN 1 ELSE 0 END),
            user_usage_count  = user_usage_count  + (CASE WHEN user_id IS NULL THEN 0 ELSE 1 END)
        WHERE token = ?
        RETURNING CASE WHEN user_id IS NULL THEN guest_usage_count ELSE user_usage_count END
    `, token)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (se *sessions) Delete(ctx context.Context, token string) error {
	res, err := se.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Dreams ---

type dreams struct{ db *sql.DB }

func (d *dreams) Create(ctx context.Context, m *model.DreamRecord) (*model.DreamRecord, error) {
	now := time.Now().UTC()
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO dreams (user_id, dream_text, analysis, created_at) VALUES (?,?,?,?)`,
		m.UserID, m.DreamText, m.Analysis, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

func (d *dreams) ListByUser(ctx context.Context, userID int64) ([]*model.DreamRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT id, user_id, dream_text, analysis, created_at
        FROM dreams WHERE user_id = ? ORDER BY id
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	res := make([]*model.DreamRecord, 0)
	for rows.Next() {
		var rec model.DreamRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.DreamText, &rec.Analysis, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &rec)
	}
	return res, rows.Err()
}
