package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	subjectKey   ctxKey = "subject"
	sessionIDKey ctxKey = "sessionID"
)

// authSchemes are the accepted Authorization header prefixes.
var authSchemes = []string{"Bearer ", "Token "}

// optionalUser returns the authenticated subject, or the anonymous subject
// when the request carries no valid token.
func optionalUser(ctx context.Context) access.Subject {
	if subject, ok := ctx.Value(subjectKey).(access.Subject); ok {
		return subject
	}
	return access.Anonymous()
}

// requireUser returns the authenticated subject or a 401.
func requireUser(ctx context.Context) (access.Subject, error) {
	subject := optionalUser(ctx)
	if subject.IsAnonymous() {
		return subject, huma.Error401Unauthorized("Authentication credentials were not provided")
	}
	return subject, nil
}

// sessionID returns the session bound to the request's access token.
func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	for _, scheme := range authSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

// authMiddleware returns a middleware that validates access tokens and stores
// the subject in context. Requests without a valid token continue
// anonymously; handlers call requireUser where authentication is mandatory.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, claims, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, access.Subject{UserID: user.ID, Role: user.Role})
			ctx = context.WithValue(ctx, sessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
