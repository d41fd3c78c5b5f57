package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/service"
)

func menuFilterFromQuery(r *http.Request) (model.MenuFilter, error) {
	f := model.MenuFilter{MealFilter: mealFilterFromQuery(r)}

	q := r.URL.Query()
	for _, bound := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
	} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return f, fmt.Errorf("%s must be a number", bound.name)
		}
		*bound.dst = &d
	}

	return f, nil
}

// RestaurantMenu возвращает публичное меню ресторана: только доступные позиции.
func (h *Handler) RestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Restaurant not found")
		return
	}

	f, err := menuFilterFromQuery(r)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	rest, entries, err := h.service.PublicMenu(r.Context(), id, f)
	if err != nil {
		h.writeError(w, "public_menu", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMenuResponse(rest, entries))
}

// MyMenu возвращает меню ресторана продавца, включая недоступные позиции.
func (h *Handler) MyMenu(w http.ResponseWriter, r *http.Request) {
	f, err := menuFilterFromQuery(r)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	rest, entries, err := h.service.OwnMenu(r.Context(), principal(r).ID, f)
	if err != nil {
		h.writeError(w, "own_menu", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMenuResponse(rest, entries))
}

// ReplaceMyMenu заменяет меню ресторана продавца целиком.
func (h *Handler) ReplaceMyMenu(w http.ResponseWriter, r *http.Request) {
	var req service.ReplaceMenuRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	items, err := h.service.ReplaceMenu(r.Context(), principal(r).ID, req)
	if err != nil {
		h.writeError(w, "replace_menu", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMenuItemsResponse(items))
}
