package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EmpoweredVote/booth-results/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthServer(t *testing.T, loginPerMinute int) (*httptest.Server, *memoryRepo) {
	t.Helper()
	svc, repo := newTestService(t)
	h := NewHandler(svc, zap.NewNop(), false)

	r := chi.NewRouter()
	r.Mount("/auth", SetupRoutes(h, middleware.NewIPRateLimiter(loginPerMinute).Middleware))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func send(t *testing.T, c *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func creds(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func TestRegisterLoginMeLogout(t *testing.T) {
	srv, _ := newAuthServer(t, 100)
	c := newClient(t)

	status, body := send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("Voter@Example.com", "secret1"))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "voter@example.com", body["email"])
	assert.NotContains(t, body, "hashed_password")
	assert.NotContains(t, body, "password")

	status, _ = send(t, c, http.MethodGet, srv.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = send(t, c, http.MethodPost, srv.URL+"/auth/login", creds("voter@example.com", "secret1"))
	require.Equal(t, http.StatusOK, status)
	userID := body["user_id"]

	status, body = send(t, c, http.MethodGet, srv.URL+"/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, userID, body["user_id"])
	assert.Equal(t, []any{"user"}, body["roles"])

	status, _ = send(t, c, http.MethodPost, srv.URL+"/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = send(t, c, http.MethodGet, srv.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterErrors(t *testing.T) {
	srv, _ := newAuthServer(t, 100)
	c := newClient(t)

	status, _ := send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("voter@example.com", "12345"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("long@example.com", strings.Repeat("a", 80)))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "password: must be at most 72 bytes", body["error"])

	status, _ = send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("voter@example.com", "secret1"))
	require.Equal(t, http.StatusCreated, status)

	status, body = send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("VOTER@example.com", "secret1"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", body["error"])
}

func TestLoginWrongPassword(t *testing.T) {
	srv, _ := newAuthServer(t, 100)
	c := newClient(t)

	send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("voter@example.com", "secret1"))

	status, body := send(t, c, http.MethodPost, srv.URL+"/auth/login", creds("voter@example.com", "nope-nope"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestLoginRateLimited(t *testing.T) {
	srv, _ := newAuthServer(t, 2)
	c := newClient(t)

	for i := 0; i < 2; i++ {
		status, _ := send(t, c, http.MethodPost, srv.URL+"/auth/login", creds("a@b.co", "secret1"))
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, body := send(t, c, http.MethodPost, srv.URL+"/auth/login", creds("a@b.co", "secret1"))
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests", body["error"])
}

func TestExpiredSessionRejected(t *testing.T) {
	srv, repo := newAuthServer(t, 100)
	c := newClient(t)

	send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("voter@example.com", "secret1"))
	status, _ := send(t, c, http.MethodPost, srv.URL+"/auth/login", creds("voter@example.com", "secret1"))
	require.Equal(t, http.StatusOK, status)

	repo.expireAll()

	status, body := send(t, c, http.MethodGet, srv.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Session expired", body["error"])
}

func TestUpdatePasswordHandler(t *testing.T) {
	srv, _ := newAuthServer(t, 100)
	c := newClient(t)

	send(t, c, http.MethodPost, srv.URL+"/auth/register", creds("voter@example.com", "secret1"))
	send(t, c, http.MethodPost, srv.URL+"/auth/login", creds("voter@example.com", "secret1"))

	status, _ := send(t, c, http.MethodPost, srv.URL+"/auth/password",
		map[string]string{"current_password": "wrong-pass", "new_password": "secret2"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := send(t, c, http.MethodPost, srv.URL+"/auth/password",
		map[string]string{"current_password": "secret1", "new_password": "secret2"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password updated", body["message"])

	status, _ = send(t, newClient(t), http.MethodPost, srv.URL+"/auth/login", creds("voter@example.com", "secret2"))
	assert.Equal(t, http.StatusOK, status)
}

func TestRolesEndpoints(t *testing.T) {
	srv, repo := newAuthServer(t, 100)
	admin := newClient(t)
	voter := newClient(t)

	_, body := send(t, admin, http.MethodPost, srv.URL+"/auth/register", creds("admin@example.com", "secret1"))
	adminID := body["user_id"].(string)
	_, body = send(t, voter, http.MethodPost, srv.URL+"/auth/register", creds("voter@example.com", "secret1"))
	voterID := body["user_id"].(string)
	require.NoError(t, repo.UpdateRoles(context.Background(), adminID, []string{"admin"}))

	send(t, admin, http.MethodPost, srv.URL+"/auth/login", creds("admin@example.com", "secret1"))
	send(t, voter, http.MethodPost, srv.URL+"/auth/login", creds("voter@example.com", "secret1"))

	status, body := send(t, voter, http.MethodGet, srv.URL+"/auth/roles", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["roles"], 39)

	rolesURL := srv.URL + "/auth/users/" + voterID + "/roles"

	status, _ = send(t, voter, http.MethodPut, rolesURL, map[string][]string{"roles": {"admin"}})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = send(t, admin, http.MethodPut, rolesURL, map[string][]string{"roles": {"Mumbai"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = send(t, admin, http.MethodPut, rolesURL, map[string][]string{"roles": {"user", "148-Thane"}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"user", "148-Thane"}, body["roles"])

	status, _ = send(t, admin, http.MethodPut, srv.URL+"/auth/users/missing/roles", map[string][]string{"roles": {"user"}})
	assert.Equal(t, http.StatusNotFound, status)
}
