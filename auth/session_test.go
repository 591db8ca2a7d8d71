package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"learnbase/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carryCookies builds a follow-up request holding the cookies set by rec.
func carryCookies(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestLoginSetsAndClearsAdmin(t *testing.T) {
	s := NewSessions("test-secret", "hunter2", true)

	rec := httptest.NewRecorder()
	capability, err := s.Login(rec, httptest.NewRequest(http.MethodPost, "/check_admin", nil), "hunter2")
	require.NoError(t, err)
	assert.True(t, capability.IsAdmin())
	assert.True(t, s.Capability(carryCookies(rec)).IsAdmin())

	next := carryCookies(rec)
	rec2 := httptest.NewRecorder()
	_, err = s.Login(rec2, next, "wrong")
	assert.ErrorIs(t, err, models.ErrAuth)
	assert.False(t, s.Capability(carryCookies(rec2)).IsAdmin(), "mismatch clears admin mode")
}

func TestLogout(t *testing.T) {
	s := NewSessions("test-secret", "hunter2", true)
	rec := httptest.NewRecorder()
	_, err := s.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), "hunter2")
	require.NoError(t, err)

	rec2 := httptest.NewRecorder()
	require.NoError(t, s.Logout(rec2, carryCookies(rec)))
	assert.False(t, s.Capability(carryCookies(rec2)).IsAdmin())
}

func TestEmptyPasswordNeverMatches(t *testing.T) {
	s := NewSessions("test-secret", "", true)
	_, err := s.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), "")
	assert.ErrorIs(t, err, models.ErrAuth)
}

func TestCapabilityGate(t *testing.T) {
	tests := []struct {
		name      string
		c         Capability
		canMutate bool
	}{
		{"admin enforced", Capability{admin: true, enforced: true}, true},
		{"visitor enforced", Capability{enforced: true}, false},
		{"visitor open", Capability{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canMutate, tt.c.CanMutate())
			if tt.canMutate {
				assert.NoError(t, tt.c.Require())
			} else {
				assert.ErrorIs(t, tt.c.Require(), models.ErrAuth)
			}
		})
	}
}

func TestForgedCookieIsIgnored(t *testing.T) {
	s := NewSessions("test-secret", "hunter2", true)
	rec := httptest.NewRecorder()
	_, err := s.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), "hunter2")
	require.NoError(t, err)

	other := NewSessions("another-secret", "hunter2", true)
	assert.False(t, other.Capability(carryCookies(rec)).IsAdmin())
}

func TestFlashesArePoppedOnce(t *testing.T) {
	s := NewSessions("test-secret", "hunter2", true)
	rec := httptest.NewRecorder()
	s.AddFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil), "success", "Note created.")

	rec2 := httptest.NewRecorder()
	flashes := s.Flashes(rec2, carryCookies(rec))
	assert.Equal(t, []Flash{{Category: "success", Message: "Note created."}}, flashes)

	assert.Empty(t, s.Flashes(httptest.NewRecorder(), carryCookies(rec2)))
}
