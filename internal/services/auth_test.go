package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store/memory"
)

func TestRegister_AttachesUserAndHidesHash(t *testing.T) {
	st := memory.New()
	svc := NewAuthService(st)
	token := newGuestSession(t, st)

	pub, err := svc.Register(context.Background(), token, "amina@example.test", "secret6", "Amina")
	require.NoError(t, err)
	assert.Equal(t, "amina@example.test", pub.Email)
	assert.Equal(t, "Amina", pub.Name)
	assert.NotZero(t, pub.ID)

	sess, err := st.Sessions().Get(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, sess.UserID)
	assert.Equal(t, pub.ID, *sess.UserID)

	// The stored hash is never the raw password.
	u, err := st.Users().GetByEmail(context.Background(), "amina@example.test")
	require.NoError(t, err)
	assert.NotEqual(t, "secret6", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	st := memory.New()
	svc := NewAuthService(st)
	t1 := newGuestSession(t, st)
	t2 := newGuestSession(t, st)

	_, err := svc.Register(context.Background(), t1, "dup@example.test", "secret6", "First")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), t2, "dup@example.test", "other6", "Second")
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)

	// The losing session stays guest.
	sess, _ := st.Sessions().Get(context.Background(), t2)
	assert.Nil(t, sess.UserID)
}

func TestLogin_RoundTrip(t *testing.T) {
	st := memory.New()
	svc := NewAuthService(st)
	t1 := newGuestSession(t, st)

	reg, err := svc.Register(context.Background(), t1, "leila@example.test", "secret6", "Leila")
	require.NoError(t, err)

	// A fresh browser session logs in with the right password.
	t2 := newGuestSession(t, st)
	pub, err := svc.Login(context.Background(), t2, "leila@example.test", "secret6")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, pub.ID)

	sess, _ := st.Sessions().Get(context.Background(), t2)
	require.NotNil(t, sess.UserID)
	assert.Equal(t, reg.ID, *sess.UserID)
}

func TestLogin_GenericFailure(t *testing.T) {
	st := memory.New()
	svc := NewAuthService(st)
	t1 := newGuestSession(t, st)

	_, err := svc.Register(context.Background(), t1, "omar@example.test", "secret6", "Omar")
	require.NoError(t, err)

	// Wrong password and unknown email yield the identical error value.
	t2 := newGuestSession(t, st)
	_, errWrongPw := svc.Login(context.Background(), t2, "omar@example.test", "not-it")
	_, errNoUser := svc.Login(context.Background(), t2, "ghost@example.test", "secret6")
	assert.ErrorIs(t, errWrongPw, model.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, model.ErrInvalidCredentials)
	assert.Equal(t, errWrongPw, errNoUser)
}

func TestLogout_DestroysSession(t *testing.T) {
	st := memory.New()
	svc := NewAuthService(st)
	token := newGuestSession(t, st)

	_, err := svc.Register(context.Background(), token, "z@example.test", "secret6", "Z")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))
	_, err = st.Sessions().Get(context.Background(), token)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Logging out an already-destroyed session is not an error.
	require.NoError(t, svc.Logout(context.Background(), token))
}

func TestCurrentUser(t *testing.T) {
	st := memory.New()
	svc := NewAuthService(st)
	token := newGuestSession(t, st)

	_, err := svc.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	reg, err := svc.Register(context.Background(), token, "cur@example.test", "secret6", "Cur")
	require.NoError(t, err)

	pub, err := svc.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, pub.ID)
	assert.Equal(t, "Cur", pub.Name)

	_, err = svc.CurrentUser(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}
