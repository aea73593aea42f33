package authctx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, username, role string) string {
	t.Helper()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestFromRequestNoCredentialsYieldsGuest(t *testing.T) {
	m := NewManager("a-secret-at-least-32-bytes-long")
	req := httptest.NewRequest(http.MethodPost, "/search", nil)

	ac, err := m.FromRequest(req)
	require.ErrorIs(t, err, ErrNoCredentials)
	require.True(t, ac.Guest())
}

func TestFromRequestValidTokenYieldsIdentifiedSubject(t *testing.T) {
	secret := "a-secret-at-least-32-bytes-long"
	m := NewManager(secret)
	token := signToken(t, secret, "alice", "user")

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	ac, err := m.FromRequest(req)
	require.NoError(t, err)
	require.False(t, ac.Guest())
	require.Equal(t, "alice", ac.Subject)
	require.Equal(t, "user", ac.Role)
}

func TestFromRequestWrongSecretFails(t *testing.T) {
	token := signToken(t, "a-secret-at-least-32-bytes-long", "alice", "user")
	m := NewManager("a-different-secret-at-least-32by")

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err := m.FromRequest(req)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdmitterGuestCanSubmitAndInit(t *testing.T) {
	admitter, err := NewAdmitter()
	require.NoError(t, err)

	ok, err := admitter.CanSubmitSearch(AuthContext{Role: RoleGuest})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = admitter.Can(AuthContext{Role: RoleGuest}, ObjSearch, ActInit)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAdmitterUserInheritsGuestPermissions(t *testing.T) {
	admitter, err := NewAdmitter()
	require.NoError(t, err)

	ok, err := admitter.CanSubmitSearch(AuthContext{Role: "user"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAdmitterOnlyAdminManagesCache(t *testing.T) {
	admitter, err := NewAdmitter()
	require.NoError(t, err)

	allowed, err := admitter.CanManageCache(AuthContext{Role: "admin"}, ActWrite)
	require.NoError(t, err)
	require.True(t, allowed)

	denied, err := admitter.CanManageCache(AuthContext{Role: "user"}, ActWrite)
	require.NoError(t, err)
	require.False(t, denied)
}

func TestContextRoundTrip(t *testing.T) {
	ac := AuthContext{Subject: "alice", Role: "user"}
	ctx := WithContext(context.Background(), ac)
	require.Equal(t, ac, FromContext(ctx))
}
