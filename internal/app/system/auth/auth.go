package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/credentials"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"go.uber.org/zap"
)

// Session is what a verified bearer token puts into r.Context().
type Session struct {
	AdminID        string
	OrganizationID string
	Email          string
}

type ctxKey string

const sessionKey ctxKey = "session"

// CurrentSession returns the session & "found?" flag.
func CurrentSession(r *http.Request) (*Session, bool) {
	s, ok := r.Context().Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// WithSession returns ctx carrying s. Handlers downstream of RequireBearer
// read it through CurrentSession.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// TokenVerifier is satisfied by *credentials.Issuer.
type TokenVerifier interface {
	Verify(token string) (credentials.Claims, error)
}

// Verifier guards routes that need an authenticated admin.
type Verifier struct {
	Tokens  TokenVerifier
	Respond *respond.Responder
	Log     *zap.Logger
}

func NewVerifier(tokens TokenVerifier, rs *respond.Responder, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{Tokens: tokens, Respond: rs, Log: logger}
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token with 401, and otherwise stores the session in the request context.
func (v *Verifier) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			v.Respond.Fail(w, r, apperr.Unauthorized("No token provided"))
			return
		}

		claims, err := v.Tokens.Verify(token)
		if err != nil {
			v.Log.Debug("bearer token rejected",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			v.Respond.Fail(w, r, apperr.Unauthorized("Invalid token"))
			return
		}

		s := &Session{
			AdminID:        claims.AdminID,
			OrganizationID: claims.OrganizationID,
			Email:          claims.Email,
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is case-sensitive.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
