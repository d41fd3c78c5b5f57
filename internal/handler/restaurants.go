package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mmeshcher/fastfood/internal/service"
)

// ListRestaurants возвращает рестораны, при необходимости отфильтрованные по городу.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	rs, err := h.service.ListRestaurants(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		h.writeError(w, "list_restaurants", err)
		return
	}

	resp := make([]restaurantResponse, 0, len(rs))
	for i := range rs {
		resp = append(resp, newRestaurantResponse(&rs[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetRestaurant возвращает ресторан по идентификатору.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Restaurant not found")
		return
	}

	rest, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		h.writeError(w, "get_restaurant", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newRestaurantResponse(rest))
}

// CreateRestaurant создаёт ресторан текущего продавца.
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var in service.RestaurantInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	rest, err := h.service.CreateRestaurant(r.Context(), principal(r).ID, in)
	if err != nil {
		h.writeError(w, "create_restaurant", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newRestaurantResponse(rest))
}

// MyRestaurant возвращает ресторан текущего продавца.
func (h *Handler) MyRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.service.MyRestaurant(r.Context(), principal(r).ID)
	if err != nil {
		h.writeError(w, "my_restaurant", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newRestaurantResponse(rest))
}

// UpdateMyRestaurant обновляет профиль ресторана текущего продавца.
func (h *Handler) UpdateMyRestaurant(w http.ResponseWriter, r *http.Request) {
	var in service.RestaurantInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	rest, err := h.service.UpdateMyRestaurant(r.Context(), principal(r).ID, in)
	if err != nil {
		h.writeError(w, "update_restaurant", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newRestaurantResponse(rest))
}

// DeleteMyRestaurant удаляет ресторан текущего продавца.
func (h *Handler) DeleteMyRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMyRestaurant(r.Context(), principal(r).ID); err != nil {
		h.writeError(w, "delete_restaurant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyRestaurantStats возвращает сводку по заказам ресторана продавца.
func (h *Handler) MyRestaurantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.RestaurantStats(r.Context(), principal(r).ID)
	if err != nil {
		h.writeError(w, "restaurant_stats", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newStatsResponse(stats))
}
