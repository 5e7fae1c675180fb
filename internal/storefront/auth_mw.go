package storefront

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type ctxKey string

const sessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

func mustSession(r *http.Request) *Session {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		panic("storefront: handler mounted without session middleware")
	}
	return s
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := kit.BearerToken(r)
		if !ok {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
			return
		}

		claims, err := s.Tokens.Parse(tok)
		if err != nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		sess, created := s.Sessions.GetOrCreate(claims.SessionID)
		if created {
			s.log().Info("session restarted", zap.String("session", sess.ID))
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
