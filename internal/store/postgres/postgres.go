// Package postgres provides a PostgreSQL store adapter using the pgx
// stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS sessions (
    token             TEXT PRIMARY KEY,
    user_id           BIGINT REFERENCES users(id),
    guest_usage_count INT NOT NULL DEFAULT 0,
    user_usage_count  INT NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS dreams (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT REFERENCES users(id),
    dream_text TEXT NOT NULL,
    analysis   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_dreams_user ON dreams(user_id);
`

// Bootstrap opens the database and ensures the schema exists.
func Bootstrap(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users       { return &users{db: s.db} }
func (s *pgStore) Sessions() store.Sessions { return &sessions{db: s.db} }
func (s *pgStore) Dreams() store.Dreams     { return &dreams{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
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
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (email, password_hash, name)
        VALUES ($1,$2,$3)
        RETURNING id, created_at
    `, m.Email, m.PasswordHash, m.Name)
	var id int64
	var created time.Time
	if err := row.Scan(&id, &created); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, model.ErrDuplicateEmail
		}
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = created
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT id, email, password_hash, name, created_at FROM users WHERE email=$1
    `, email)
	return scanUser(row)
}

func (u *users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT id, email, password_hash, name, created_at FROM users WHERE id=$1
    `, id)
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
	row := se.db.QueryRowContext(ctx, `
        INSERT INTO sessions (token) VALUES ($1) RETURNING created_at
    `, token)
	var created time.Time
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	return &model.Session{Token: token, CreatedAt: created}, nil
}

func (se *sessions) Get(ctx context.Context, token string) (*model.Session, error) {
	var out model.Session
	row := se.db.QueryRowContext(ctx, `
        SELECT token, user_id, guest_usage_count, user_usage_count, created_at
        FROM sessions WHERE token=$1
    `, token)
	if err := row.Scan(&out.Token, &out.UserID, &out.GuestUsageCount, &out.UserUsageCount, &out.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (se *sessions) AttachUser(ctx context.Context, token string, userID int64) error {
	res, err := se.db.ExecContext(ctx, `UPDATE sessions SET user_id=$1 WHERE token=$2`, userID, token)
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
	row := se.db.QueryRowContext(ctx, `
        UPDATE sessions SET
            guest_usage_count = guest_usage_count + (CASE WHEN user_id IS NULL THEN 1 ELSE 0 END),
            user_usage_count  = user_usage_count  + (CASE WHEN user_id IS NULL THEN 0 ELSE 1 END)
        WHERE token=$1
        RETURNING CASE WHEN user_id IS NULL THEN guest_usage_count ELSE user_usage_count END
    `, token)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (se *sessions) Delete(ctx context.Context, token string) error {
	res, err := se.db.ExecContext(ctx, `DELETE FROM sessions WHERE token=$1`, token)
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
	row := d.db.QueryRowContext(ctx, `
        INSERT INTO dreams (user_id, dream_text, analysis)
        VALUES ($1,$2,$3)
        RETURNING id, created_at
    `, m.UserID, m.DreamText, m.Analysis)
	var id int64
	var created time.Time
	if err := row.Scan(&id, &created); err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = created
	return &out, nil
}

func (d *dreams) ListByUser(ctx context.Context, userID int64) ([]*model.DreamRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT id, user_id, dream_text, analysis, created_at
        FROM dreams WHERE user_id=$1 ORDER BY id
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
