// Package service is a thin HTTP front end over internal/session: chi
// routing, bearer-JWT auth, and uuid request correlation IDs, grounded on
// server/api/api.go, server/token.go, and server/middle/middle.go. It is a
// consumer of the compiler core, not a reimplementation of an LSP
// transport (spec.md §1 keeps editor integration out of scope).
package service

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dekarrin/dpc/internal/session"
)

const tokenIssuer = "dpc"

var (
	errNoAuthHeader    = errors.New("no authorization header present")
	errNotBearerFormat = errors.New("authorization header not in Bearer format")
)

// Service holds the collaborators every endpoint needs: the compiler
// session, the shared JWT secret, a logger (teacher precedent:
// server/api.API holding a Backend + Secret), and the striped lock that
// serializes concurrent compiles of the same URI (SPEC_FULL.md §5).
type Service struct {
	Session *session.Session
	Secret  []byte
	Log     *log.Logger

	locks *uriLocks
}

// New returns a Service. If logger is nil, log.Default() is used.
func New(sess *session.Session, secret []byte, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Session: sess, Secret: secret, Log: logger, locks: newURILocks()}
}

// IssueToken mints a bearer token for the shared service credential,
// grounded on server/token.go's generateJWT but without any per-user
// claim, since this service authenticates the caller as a whole, not an
// individual account.
func (s *Service) IssueToken(ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(s.Secret)
}

// Router assembles the chi mux: a request-ID middleware, then bearer-JWT
// auth, then the compile/definition endpoints (spec.md §6's external
// interface, bound to HTTP per SPEC_FULL.md §6).
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(requireBearerJWT(s.Secret))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Get("/definition", s.handleDefinition)
	})

	return r
}
