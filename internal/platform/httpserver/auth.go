package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingCaller = errors.New("caller identity is required")

// caller is the authenticated principal of a request. Token is the raw
// bearer token, forwarded to collaborator services.
type caller struct {
	UserID string
	Token  string
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// resolveCaller prefers a verified JWT subject and falls back to the
// X-User-Id header set by the gateway when no secret is configured.
func (s *Server) resolveCaller(r *http.Request) (caller, error) {
	token := bearerToken(r)
	if s.options.JWTSecret != "" {
		if token == "" {
			return caller{}, errMissingCaller
		}
		subject, err := verifySubject(token, s.options.JWTSecret)
		if err != nil {
			return caller{}, err
		}
		return caller{UserID: subject, Token: token}, nil
	}

	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		return caller{}, errMissingCaller
	}
	return caller{UserID: userID, Token: token}, nil
}

func verifySubject(token string, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (caller, bool) {
	resolved, err := s.resolveCaller(r)
	if err != nil {
		if errors.Is(err, errMissingCaller) {
			writeError(w, http.StatusUnauthorized, "missing_user", "bearer token or X-User-Id header is required")
		} else {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
		}
		return caller{}, false
	}
	return resolved, true
}
