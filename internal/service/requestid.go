package service

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = iota

// requestID stamps every inbound request with a uuid, storing it in the
// request context for handlers and logging, and echoing it back as a
// response header — grounded on server/api/api.go's requireIDParam use of
// uuid for entity identity, adapted here to per-request correlation.
func (s *Service) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.New()
		w.Header().Set("X-Request-Id", id.String())
		ctx := context.WithValue(req.Context(), requestIDKey, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(requestIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
