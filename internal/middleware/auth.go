// Package middleware содержит HTTP middleware для сервиса заказов FastFood.
package middleware

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmeshcher/fastfood/internal/model"
)

type contextKey string

const principalKey contextKey = "principal"

// Claims описывает полезную нагрузку токена доступа.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT из заголовка Authorization.
type AuthMiddleware struct {
	secretKey []byte
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
// Пустой ключ заменяется случайным.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
	}
}

// Middleware проверяет токен и добавляет пользователя в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || raw == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		p, err := a.parseToken(raw)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (a *AuthMiddleware) parseToken(raw string) (model.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return model.Principal{}, fmt.Errorf("empty subject")
	}
	if claims.Role != model.RoleCustomer && claims.Role != model.RoleSeller {
		return model.Principal{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return model.Principal{ID: claims.Subject, Role: claims.Role}, nil
}

// IssueToken выпускает токен для пользователя. Используется в тестах и локальной отладке.
func (a *AuthMiddleware) IssueToken(p model.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
}

// RequireRole пропускает только пользователей с одной из указанных ролей.
// Должен стоять после Middleware.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, p.Role) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipalFromContext извлекает пользователя из контекста запроса.
func GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

// WithPrincipal кладёт пользователя в контекст.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
