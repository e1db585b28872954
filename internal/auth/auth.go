package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/models"
)

const (
	CookieName  = "racenight_token"
	TokenExpiry = 24 * time.Hour
)

// Claims is the JWT payload: the account identity plus its global role
// and permission grants. The subject is the user ID.
type Claims struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Auth issues and verifies signed tokens
type Auth struct {
	secret []byte
}

// New creates a new Auth instance with the given signing secret
func New(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// GenerateSecret creates a random signing secret for when none is
// configured. Tokens issued with a generated secret do not survive a
// restart.
func GenerateSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to generate secret: %v", err))
	}
	return hex.EncodeToString(buf)
}

// IssueToken signs a token for a user
func (a *Auth) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:        user.Name,
		Role:        user.Role,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken verifies a token and returns the principal it carries
func (a *Auth) ParseToken(tokenStr string) (*authz.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}
	return &authz.Principal{
		ID:          id,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}

type principalKeyType struct{}

var principalKey principalKeyType

// WithPrincipal attaches a principal to a context
func WithPrincipal(ctx context.Context, p *authz.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the request's principal, or nil when the request
// is unauthenticated. Downstream authorization fails closed on nil.
func FromContext(ctx context.Context) *authz.Principal {
	p, _ := ctx.Value(principalKey).(*authz.Principal)
	return p
}

// Middleware parses an optional token and attaches the principal.
// Requests without a valid token pass through unauthenticated.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenStr := extractToken(r); tokenStr != "" {
			if p, err := a.ParseToken(tokenStr); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests with 401
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetTokenCookie sets the auth cookie on the response
func SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenExpiry.Seconds()),
	})
}

// ClearTokenCookie removes the auth cookie
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// extractToken pulls the token from the Authorization header, falling
// back to the cookie for websocket and browser flows.
func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
