package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamdive/dreamdive/internal/api"
	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/services"
	"github.com/dreamdive/dreamdive/internal/store/memory"
)

type fakeInterpreter struct {
	calls int
	err   error
}

func (f *fakeInterpreter) Interpret(_ context.Context, dreamText string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "analysis of: " + dreamText, nil
}

func newTestServer(t *testing.T, ai *fakeInterpreter) (*httptest.Server, *http.Client) {
	t.Helper()

	st := memory.New()
	router := api.NewRouter(api.RouterDeps{
		Store:      st,
		Auth:       services.NewAuthService(st),
		Dreams:     services.NewDreamService(st, ai, services.QuotaPolicy{Guest: 1, User: 10}),
		SessionTTL: 24 * time.Hour,
		Log:        zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func register(t *testing.T, c *http.Client, base, email string) {
	t.Helper()
	resp := postJSON(t, c, base+"/api/auth/register", map[string]string{
		"email": email, "password": "secret1", "name": "Dana",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

const longDream = "I was flying over a city made of glass and could not land anywhere."

func TestSessionCookieEstablished(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	resp := getJSON(t, client, srv.URL+"/api/dreams/usage")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, api.CookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	usage := decode[model.Usage](t, resp)
	assert.Equal(t, 0, usage.CurrentUsage)
	assert.Equal(t, 1, usage.MaxUsage)
	assert.Equal(t, 1, usage.RemainingUsage)
	assert.False(t, usage.IsLoggedIn)

	// a second request with the cookie reuses the session
	resp2 := getJSON(t, client, srv.URL+"/api/dreams/usage")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Empty(t, resp2.Cookies())
	resp2.Body.Close()
}

func TestHealthNoSession(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	resp := getJSON(t, client, srv.URL+"/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestGuestAnalyzeAndQuota(t *testing.T) {
	ai := &fakeInterpreter{}
	srv, client := newTestServer(t, ai)

	resp := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{"dreamText": longDream})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[services.AnalyzeResult](t, resp)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, longDream, res.Analysis.DreamText)
	assert.Contains(t, res.Analysis.Analysis, longDream)
	assert.Equal(t, 0, res.RemainingUsage)
	assert.Equal(t, 1, ai.calls)

	// guest allowance is spent; the second attempt asks for sign-in
	resp2 := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{"dreamText": longDream})
	require.Equal(t, http.StatusForbidden, resp2.StatusCode)
	body := decode[map[string]any](t, resp2)
	assert.Equal(t, true, body["requiresAuth"])
	assert.Equal(t, 1, ai.calls, "exhausted quota must not reach the interpreter")
}

func TestShortDreamTextRejected(t *testing.T) {
	ai := &fakeInterpreter{}
	srv, client := newTestServer(t, ai)

	resp := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{"dreamText": "too short"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Zero(t, ai.calls)
}

func TestRegisterValidation(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	cases := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "secret1", "name": "Dana"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "123", "name": "Dana"}},
		{"missing name", map[string]string{"email": "a@b.com", "password": "secret1", "name": ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, client, srv.URL+"/api/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestRegisterAttachesSession(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	resp := postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{
		"email": "dana@example.com", "password": "secret1", "name": "Dana",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]model.PublicUser](t, resp)
	user := body["user"]
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, "Dana", user.Name)
	assert.NotZero(t, user.ID)

	usage := decode[model.Usage](t, getJSON(t, client, srv.URL+"/api/dreams/usage"))
	assert.True(t, usage.IsLoggedIn)
	assert.Equal(t, 10, usage.MaxUsage)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})
	register(t, client, srv.URL, "dana@example.com")

	resp := postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{
		"email": "dana@example.com", "password": "other12", "name": "Other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginWrongPassword(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})
	register(t, client, srv.URL, "dana@example.com")

	resp := postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{
		"email": "dana@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// unknown account fails the same way
	resp2 := postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	resp2.Body.Close()
}

func TestUserQuotaTenAnalyses(t *testing.T) {
	ai := &fakeInterpreter{}
	srv, client := newTestServer(t, ai)
	register(t, client, srv.URL, "dana@example.com")

	for i := 0; i < 10; i++ {
		resp := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{"dreamText": longDream})
		require.Equal(t, http.StatusOK, resp.StatusCode, "analysis %d", i+1)
		res := decode[services.AnalyzeResult](t, resp)
		assert.Equal(t, 9-i, res.RemainingUsage)
	}

	resp := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{"dreamText": longDream})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	_, hasFlag := body["requiresAuth"]
	assert.False(t, hasFlag, "an authenticated session is past sign-in")
	assert.Equal(t, 10, ai.calls)
}

func TestHistoryRequiresAuth(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	resp := getJSON(t, client, srv.URL+"/api/dreams/history")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHistoryListsOwnDreams(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})
	register(t, client, srv.URL, "dana@example.com")

	for i := 0; i < 3; i++ {
		resp := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{
			"dreamText": fmt.Sprintf("%s (%d)", longDream, i),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	recs := decode[[]*model.DreamRecord](t, getJSON(t, client, srv.URL+"/api/dreams/history"))
	require.Len(t, recs, 3)
	assert.Contains(t, recs[0].DreamText, "(2)", "newest first")
}

func TestCurrentUser(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	// guest session has no user
	resp := getJSON(t, client, srv.URL+"/api/auth/user")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	register(t, client, srv.URL, "dana@example.com")

	body := decode[map[string]model.PublicUser](t, getJSON(t, client, srv.URL+"/api/auth/user"))
	assert.Equal(t, "dana@example.com", body["user"].Email)
}

func TestLogoutResetsToGuest(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})
	register(t, client, srv.URL, "dana@example.com")

	resp := postJSON(t, client, srv.URL+"/api/auth/logout", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	usage := decode[model.Usage](t, getJSON(t, client, srv.URL+"/api/dreams/usage"))
	assert.False(t, usage.IsLoggedIn)
	assert.Equal(t, 1, usage.MaxUsage)
	assert.Equal(t, 0, usage.CurrentUsage)
}

func TestInterpreterFailureSurfacesSafely(t *testing.T) {
	ai := &fakeInterpreter{err: fmt.Errorf("upstream boom: %w", model.ErrInterpreterUnavailable)}
	srv, client := newTestServer(t, ai)

	resp := postJSON(t, client, srv.URL+"/api/dreams/analyze", map[string]string{"dreamText": longDream})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "dream analysis failed, please try again", body["message"])

	// nothing was charged
	usage := decode[model.Usage](t, getJSON(t, client, srv.URL+"/api/dreams/usage"))
	assert.Equal(t, 0, usage.CurrentUsage)
}

func TestInvalidJSONBody(t *testing.T) {
	srv, client := newTestServer(t, &fakeInterpreter{})

	resp, err := client.Post(srv.URL+"/api/dreams/analyze", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
