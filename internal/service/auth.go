package service

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// requireBearerJWT is grounded on server/token.go's AuthHandler, simplified
// because there is no per-user account to derive a signing key from here —
// the service has exactly one shared credential, the secret given at
// startup, so the token only needs to prove possession of that secret, not
// identify a particular caller.
func requireBearerJWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := bearerToken(req)
			if err != nil {
				errResult(http.StatusUnauthorized, err.Error()).writeTo(w)
				return
			}

			_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(tokenIssuer))
			if err != nil {
				errResult(http.StatusUnauthorized, "invalid or expired token").writeTo(w)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func bearerToken(req *http.Request) (string, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return "", errNoAuthHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", errNotBearerFormat
	}

	return strings.TrimSpace(parts[1]), nil
}
