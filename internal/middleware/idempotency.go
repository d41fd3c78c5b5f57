package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mmeshcher/fastfood/internal/idempotency"
)

// IdempotencyHeader содержит клиентский ключ идемпотентности.
const IdempotencyHeader = "Idempotency-Key"

// Guard резервирует ключи идемпотентности.
type Guard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency отклоняет повтор запроса с тем же Idempotency-Key от того же пользователя.
// Ключ освобождается, если запрос завершился неуспешно. При недоступности хранилища запрос пропускается.
func Idempotency(guard Guard, scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if guard == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(IdempotencyHeader)
			p, ok := GetPrincipalFromContext(r.Context())
			if clientKey == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := idempotency.Key(scope, p.ID, clientKey)

			claimed, err := guard.Claim(r.Context(), key)
			if err != nil {
				logger.Warn("idempotency guard unavailable", zap.Error(err), zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}
			if !claimed {
				_ = WriteError(w, http.StatusConflict, ErrorResponse{
					Code:    CodeConflict,
					Message: "A request with this Idempotency-Key has already been received",
				})
				return
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if status := ww.Status(); status != 0 && (status < 200 || status > 299) {
				if err := guard.Release(context.WithoutCancel(r.Context()), key); err != nil {
					logger.Warn("release idempotency key failed", zap.Error(err), zap.String("key", key))
				}
			}
		})
	}
}
