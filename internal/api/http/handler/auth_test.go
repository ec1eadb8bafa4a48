package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvoss/strongbox/internal/api/http/middleware"
	"github.com/nvoss/strongbox/internal/model"
	"github.com/nvoss/strongbox/internal/testutil"
)

type fakeSessions struct {
	token string
	err   error

	username  string
	password  string
	loggedOut []string
}

func (f *fakeSessions) Login(_ context.Context, username, password string) (string, error) {
	f.username, f.password = username, password
	return f.token, f.err
}

func (f *fakeSessions) Logout(_ context.Context, token string) {
	f.loggedOut = append(f.loggedOut, token)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middleware.SessionCookie)
	return nil
}

func TestAuth_LoginPage(t *testing.T) {
	h := NewAuth(&fakeSessions{}, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/login.html", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Safe login")
}

func TestAuth_Login(t *testing.T) {
	sessions := &fakeSessions{token: "abc123"}
	h := NewAuth(sessions, testutil.MakeNoopLogger())

	rec := postForm(t, h.Login, url.Values{
		"username": {"admin"},
		"password": {"strongbox"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "admin", sessions.username)
	assert.Equal(t, "strongbox", sessions.password)

	cookie := sessionCookie(t, rec)
	assert.Equal(t, "abc123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuth_Login_BadCredentials(t *testing.T) {
	sessions := &fakeSessions{err: model.ErrBadCredentials}
	h := NewAuth(sessions, testutil.MakeNoopLogger())

	rec := postForm(t, h.Login, url.Values{
		"username": {"admin"},
		"password": {"nope"},
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Safe login")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_Logout(t *testing.T) {
	sessions := &fakeSessions{}
	h := NewAuth(sessions, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "abc123"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login.html", rec.Header().Get("Location"))
	assert.Equal(t, []string{"abc123"}, sessions.loggedOut)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuth_Logout_WithoutCookie(t *testing.T) {
	sessions := &fakeSessions{}
	h := NewAuth(sessions, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, sessions.loggedOut)
}
