package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

type sessionJSON struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

func postJSON(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func sessionCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSignUpSetsSessionCookies(t *testing.T) {
	f := newFixture(t)

	rec := postJSON(handlers.SignUp(f.deps), "/api/auth/signup",
		`{"email":"Alice@Example.com","password":"correcthorse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body sessionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.NotEmpty(t, body.AccessToken)

	cookies := sessionCookies(rec)
	require.Contains(t, cookies, mw.AccessCookie)
	require.Contains(t, cookies, mw.RefreshCookie)
	assert.True(t, cookies[mw.AccessCookie].HttpOnly)
	assert.True(t, cookies[mw.RefreshCookie].HttpOnly)
	assert.NotEmpty(t, cookies[mw.RefreshCookie].Value)
}

func TestSignUpRejects(t *testing.T) {
	f := newFixture(t)
	h := handlers.SignUp(f.deps)

	assert.Equal(t, http.StatusBadRequest,
		postJSON(h, "/api/auth/signup", `{"email":"nope","password":"correcthorse"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		postJSON(h, "/api/auth/signup", `{"email":"a@b.com","password":"short"}`).Code)

	require.Equal(t, http.StatusCreated,
		postJSON(h, "/api/auth/signup", `{"email":"a@b.com","password":"correcthorse"}`).Code)
	assert.Equal(t, http.StatusConflict,
		postJSON(h, "/api/auth/signup", `{"email":"a@b.com","password":"correcthorse"}`).Code)
}

func TestSignInAndOut(t *testing.T) {
	f := newFixture(t)

	rec := postJSON(handlers.SignUp(f.deps), "/api/auth/signup",
		`{"email":"bob@example.com","password":"correcthorse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(handlers.SignIn(f.deps), "/api/auth/signin",
		`{"email":"bob@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(handlers.SignIn(f.deps), "/api/auth/signin",
		`{"email":"bob@example.com","password":"correcthorse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := sessionCookies(rec)[mw.RefreshCookie]
	require.NotNil(t, refresh)

	// Sign out revokes the session and expires both cookies.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.AddCookie(refresh)
	out := httptest.NewRecorder()
	handlers.SignOut(f.deps)(out, req)
	require.Equal(t, http.StatusNoContent, out.Code)
	for _, c := range out.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
	}

	// The revoked refresh token no longer rotates.
	rec = postJSON(handlers.Refresh(f.deps), "/api/auth/refresh",
		`{"refresh_token":"`+refresh.Value+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpointRotates(t *testing.T) {
	f := newFixture(t)

	rec := postJSON(handlers.SignUp(f.deps), "/api/auth/signup",
		`{"email":"carol@example.com","password":"correcthorse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	refresh := sessionCookies(rec)[mw.RefreshCookie].Value

	rec = postJSON(handlers.Refresh(f.deps), "/api/auth/refresh",
		`{"refresh_token":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
	assert.NotEqual(t, refresh, body.RefreshToken)

	// Old token is single use.
	rec = postJSON(handlers.Refresh(f.deps), "/api/auth/refresh",
		`{"refresh_token":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
