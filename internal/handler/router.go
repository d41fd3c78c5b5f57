package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	custommiddleware "github.com/mmeshcher/fastfood/internal/middleware"
	"github.com/mmeshcher/fastfood/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса заказов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: h.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", custommiddleware.IdempotencyHeader},
	}).Handler)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/healthz", h.Health)

	seller := custommiddleware.RequireRole(model.RoleSeller)
	customer := custommiddleware.RequireRole(model.RoleCustomer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/meals", func(r chi.Router) {
			r.Get("/", h.ListMeals)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware, seller)

				r.Get("/selectable", h.SelectableMeals)
				r.Get("/mine/custom", h.MyCustomMeals)
				r.Post("/", h.CreateMeal)
				r.Put("/{id}", h.UpdateMeal)
				r.Delete("/{id}", h.DeleteMeal)
			})

			r.Get("/{id}", h.GetMeal)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", h.ListRestaurants)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware, seller)

				r.Post("/", h.CreateRestaurant)
				r.Get("/mine", h.MyRestaurant)
				r.Put("/mine", h.UpdateMyRestaurant)
				r.Delete("/mine", h.DeleteMyRestaurant)
				r.Get("/mine/menu", h.MyMenu)
				r.Put("/mine/menu", h.ReplaceMyMenu)
				r.Get("/mine/stats", h.MyRestaurantStats)
			})

			r.Get("/{id}", h.GetRestaurant)
			r.Get("/{id}/menu", h.RestaurantMenu)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(customer)

				r.With(custommiddleware.Idempotency(h.idempotency, "orders", h.logger)).Post("/", h.PlaceOrder)
				r.Get("/mine", h.MyOrders)
				r.Post("/{id}/confirm-delivered", h.ConfirmDelivered)
			})

			r.Group(func(r chi.Router) {
				r.Use(seller)

				r.Get("/restaurant/mine", h.RestaurantOrders)
				r.Put("/{id}/status", h.UpdateOrderStatus)
			})

			r.Get("/{id}", h.GetOrder)
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/payment", h.GetMyPayment)
			r.Put("/payment", h.SetMyPayment)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.notFound(w, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
