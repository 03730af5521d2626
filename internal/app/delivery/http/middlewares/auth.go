package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/utils"
)

// Authenticate resolves the bearer token into the stored session and places
// it in the request context for downstream layers.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(errors.New("missing Authorization header")))
			return
		}

		session, err := m.AuthUsecase.ResolveSession(r.Context(), token)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from the Authorization header, accepting the
// value with or without the "Bearer " prefix.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(constvars.HeaderAuthorization))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
