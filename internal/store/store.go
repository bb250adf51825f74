package store

import (
	"context"

	"github.com/dreamdive/dreamdive/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (memory, sqlite, postgres).
type Store interface {
	Users() Users
	Sessions() Sessions
	Dreams() Dreams
}

// Users holds account records. IDs are assigned sequentially and never
// reused, even across failed create attempts.
type Users interface {
	// Create persists a user whose PasswordHash is already computed.
	// Returns model.ErrDuplicateEmail on an exact email match.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Sessions tracks per-browser session records and their usage counters.
// Ceilings are orchestration policy; this layer never enforces them.
type Sessions interface {
	// Create initializes a session with zero counters and no user. An
	// existing token is a logic error, not a user-facing condition.
	Create(ctx context.Context, token string) (*model.Session, error)
	Get(ctx context.Context, token string) (*model.Session, error)
	// AttachUser transitions Guest -> Authenticated. Idempotent when the
	// session is already attached to the same user; counters are untouched.
	AttachUser(ctx context.Context, token string, userID int64) error
	// RecordUsage increments the counter for the session's quota class at
	// call time and returns the new value. The read-modify-write is atomic.
	RecordUsage(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token string) error
}

// Dreams is an append-only log of dream records. No update or delete exists.
type Dreams interface {
	Create(ctx context.Context, d *model.DreamRecord) (*model.DreamRecord, error)
	// ListByUser returns records unordered; callers own presentation order.
	// An unknown user yields an empty slice, not an error.
	ListByUser(ctx context.Context, userID int64) ([]*model.DreamRecord, error)
}
