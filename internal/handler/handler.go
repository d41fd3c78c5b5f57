// Package handler содержит HTTP-обработчики API сервиса заказов FastFood.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/fastfood/internal/middleware"
	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListMeals(ctx context.Context, f model.MealFilter) ([]model.Meal, error)
	GetMeal(ctx context.Context, id string) (*model.Meal, error)
	SelectableMeals(ctx context.Context, sellerID string) ([]model.Meal, error)
	MyCustomMeals(ctx context.Context, sellerID string) ([]model.Meal, error)
	CreateCustomMeal(ctx context.Context, sellerID string, in service.MealInput) (*model.Meal, error)
	UpdateCustomMeal(ctx context.Context, sellerID, id string, in service.MealInput) (*model.Meal, error)
	DeleteCustomMeal(ctx context.Context, sellerID, id string) error

	CreateRestaurant(ctx context.Context, sellerID string, in service.RestaurantInput) (*model.Restaurant, error)
	MyRestaurant(ctx context.Context, sellerID string) (*model.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error)
	ListRestaurants(ctx context.Context, city string) ([]model.Restaurant, error)
	UpdateMyRestaurant(ctx context.Context, sellerID string, in service.RestaurantInput) (*model.Restaurant, error)
	DeleteMyRestaurant(ctx context.Context, sellerID string) error

	ReplaceMenu(ctx context.Context, sellerID string, req service.ReplaceMenuRequest) ([]model.MenuItem, error)
	PublicMenu(ctx context.Context, restaurantID string, f model.MenuFilter) (*model.Restaurant, []model.MenuEntry, error)
	OwnMenu(ctx context.Context, sellerID string, f model.MenuFilter) (*model.Restaurant, []model.MenuEntry, error)

	PlaceOrder(ctx context.Context, customerID string, req service.PlaceOrderRequest) (*model.Order, error)
	UpdateStatus(ctx context.Context, sellerID, orderID string, req service.UpdateStatusRequest) (*model.Order, error)
	ConfirmDelivered(ctx context.Context, customerID, orderID string) (*model.Order, error)
	GetOrder(ctx context.Context, p model.Principal, orderID string) (*model.Order, error)
	MyOrders(ctx context.Context, customerID, view string) ([]model.Order, error)
	RestaurantOrders(ctx context.Context, sellerID string, status model.OrderStatus) ([]model.Order, error)

	GetPaymentProfile(ctx context.Context, userID string) (*model.PaymentProfile, error)
	SetPaymentProfile(ctx context.Context, p model.Principal, in service.PaymentProfileInput) (*model.PaymentProfile, error)

	RestaurantStats(ctx context.Context, sellerID string) (*model.RestaurantStats, error)

	Ping(ctx context.Context) error
}

// Handler реализует HTTP-обработчики API сервиса заказов.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	idempotency    middleware.Guard
	corsOrigins    []string
}

// Option настраивает необязательные зависимости обработчика.
type Option func(*Handler)

// WithIdempotency включает защиту POST /api/orders от повторов по Idempotency-Key.
func WithIdempotency(g middleware.Guard) Option {
	return func(h *Handler) { h.idempotency = g }
}

// WithCORSOrigins задаёт разрешённые источники CORS.
func WithCORSOrigins(origins []string) Option {
	return func(h *Handler) { h.corsOrigins = origins }
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, opts ...Option) *Handler {
	h := &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		corsOrigins:    []string{"*"},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func principal(r *http.Request) model.Principal {
	p, _ := middleware.GetPrincipalFromContext(r.Context())
	return p
}

// maxBodyBytes ограничивает размер тела запроса после распаковки gzip.
const maxBodyBytes = 1 << 20

// decodeJSON читает тело запроса в dst. При ошибке ответ уже записан.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Code:    codePayloadTooLarge,
				Message: "Request body is too large",
			})
			return false
		}
		h.badRequest(w, "Invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}
