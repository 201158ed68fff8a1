package httpserver

import (
	"errors"
	"net/http"
	"strings"

	domain "authgate/backend/internal/domain/auth"
)

// authMiddleware is the gate in front of protected routes. A request either
// reaches next with an AuthContext attached, or is answered here.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			s.metrics.RecordTokenVerification("missing")
			writeMessage(w, http.StatusUnauthorized, "access denied")
			return
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			kind := "unknown"
			var verr *domain.VerificationError
			if errors.As(err, &verr) {
				kind = verr.Kind.String()
			}
			s.metrics.RecordTokenVerification(kind)
			s.logger.WarnContext(r.Context(), "bearer token rejected",
				"reason", kind,
				"error", err,
				"path", r.URL.Path,
			)
			writeMessage(w, http.StatusBadRequest, "invalid token")
			return
		}

		s.metrics.RecordTokenVerification("ok")
		ctx := domain.WithAuthContext(r.Context(), domain.AuthContext{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken returns the token of a "Bearer <token>" header, or "".
func extractBearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
