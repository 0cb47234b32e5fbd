package httpapi

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	requestIDHeader   = "X-Request-ID"
	accessTokenCookie = "accessToken"
)

type principalKey struct{}

// TokenParser verifies access tokens.
type TokenParser interface {
	ParseAccess(token string) (domain.Principal, error)
}

func principalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey{}).(domain.Principal)
	return p
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records request metrics labelled with the route template.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := "unmatched"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		metrics.ObserveRequest(r.Method, path, rec.status, time.Since(start))
	})
}

func bearerToken(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// authenticated rejects requests without a valid access token. When roles
// are given the caller must hold one of them.
func (h *Handler) authenticated(next http.HandlerFunc, roles ...domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.writeError(w, r, apperr.Unauthorized("Unauthorized request"))
			return
		}
		p, err := h.Tokens.ParseAccess(token)
		if err != nil {
			h.writeError(w, r, apperr.Unauthorized("Invalid access token"))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, p.Role) {
			h.writeError(w, r, apperr.Forbidden("Access denied: requires %s role", roles[0]))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	}
}
