// Package authctx derives the AuthContext the search orchestrator's
// admission step consults, adapting the teacher's JWT authenticator
// and Casbin role enforcer from route permissions to search-submission
// permissions.
package authctx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleGuest is the role assigned to unauthenticated or guest-token
// submissions. Any other role is treated as an identified subject.
const RoleGuest = "guest"

// ErrNoCredentials is returned when a request carries no bearer token.
// An empty AuthContext with Role=RoleGuest is still returned by
// FromRequest alongside this error so callers that allow anonymous
// guest submissions don't need a second code path.
var ErrNoCredentials = errors.New("authctx: no credentials presented")

// ErrInvalidCredentials is returned when a presented token fails
// signature or claims validation.
var ErrInvalidCredentials = errors.New("authctx: invalid credentials")

// Claims mirrors the teacher's auth.Claims shape: username and role
// carried alongside the registered JWT claims.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthContext is the normalized identity the orchestrator's admission
// step and the Job Registry's metadata carry for a submission.
type AuthContext struct {
	Subject     string
	Role        string
	Email       string
	RefreshHash string
	SessionID   string
	IssuedAt    time.Time
}

// Guest reports whether this context represents an unauthenticated
// guest submission.
func (a AuthContext) Guest() bool {
	return a.Role == "" || a.Role == RoleGuest
}

// Manager validates bearer tokens against a shared HMAC secret, the
// same HS256 scheme as the teacher's auth.JWTManager.
type Manager struct {
	secret []byte
}

// NewManager constructs a Manager. secret must be non-empty; callers
// are expected to enforce the teacher's 32-character minimum at
// configuration load time.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// FromRequest extracts and validates a bearer token from the
// Authorization header, returning a guest AuthContext and
// ErrNoCredentials when none is presented.
func (m *Manager) FromRequest(r *http.Request) (AuthContext, error) {
	token := extractBearer(r)
	if token == "" {
		return AuthContext{Role: RoleGuest}, ErrNoCredentials
	}
	return m.FromToken(token)
}

// FromToken validates tokenString and derives an AuthContext from its
// claims.
func (m *Manager) FromToken(tokenString string) (AuthContext, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return AuthContext{Role: RoleGuest}, ErrInvalidCredentials
	}

	role := claims.Role
	if role == "" {
		role = RoleGuest
	}
	ac := AuthContext{
		Subject: claims.Username,
		Role:    role,
		Email:   claims.Email,
	}
	if claims.IssuedAt != nil {
		ac.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ID != "" {
		ac.SessionID = claims.ID
	}
	return ac, nil
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ctxKey is an unexported type so values stored under it cannot
// collide with keys from other packages.
type ctxKey struct{}

// WithContext attaches ac to ctx for downstream handlers and the
// background task runner to retrieve.
func WithContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext retrieves the AuthContext attached by WithContext,
// defaulting to an anonymous guest context when none is present.
func FromContext(ctx context.Context) AuthContext {
	if ac, ok := ctx.Value(ctxKey{}).(AuthContext); ok {
		return ac
	}
	return AuthContext{Role: RoleGuest}
}
