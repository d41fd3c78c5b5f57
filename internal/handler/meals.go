package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/service"
)

func mealFilterFromQuery(r *http.Request) model.MealFilter {
	q := r.URL.Query()
	return model.MealFilter{
		Name:        q.Get("name"),
		Category:    q.Get("category"),
		Ingredients: model.ParseIngredients(q.Get("ingredient")),
	}
}

// ListMeals возвращает каталог блюд с фильтрами name, category, ingredient.
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.service.ListMeals(r.Context(), mealFilterFromQuery(r))
	if err != nil {
		h.writeError(w, "list_meals", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMealsResponse(meals))
}

// GetMeal возвращает блюдо каталога.
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Meal not found")
		return
	}

	meal, err := h.service.GetMeal(r.Context(), id)
	if err != nil {
		h.writeError(w, "get_meal", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMealResponse(*meal))
}

// SelectableMeals возвращает блюда, доступные продавцу для меню.
func (h *Handler) SelectableMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.service.SelectableMeals(r.Context(), principal(r).ID)
	if err != nil {
		h.writeError(w, "selectable_meals", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMealsResponse(meals))
}

// MyCustomMeals возвращает пользовательские блюда продавца.
func (h *Handler) MyCustomMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.service.MyCustomMeals(r.Context(), principal(r).ID)
	if err != nil {
		h.writeError(w, "my_custom_meals", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMealsResponse(meals))
}

// CreateMeal создаёт пользовательское блюдо продавца.
func (h *Handler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var in service.MealInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	meal, err := h.service.CreateCustomMeal(r.Context(), principal(r).ID, in)
	if err != nil {
		h.writeError(w, "create_meal", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newMealResponse(*meal))
}

// UpdateMeal обновляет пользовательское блюдо продавца.
func (h *Handler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Meal not found")
		return
	}

	var in service.MealInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	meal, err := h.service.UpdateCustomMeal(r.Context(), principal(r).ID, id, in)
	if err != nil {
		h.writeError(w, "update_meal", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newMealResponse(*meal))
}

// DeleteMeal удаляет пользовательское блюдо продавца.
func (h *Handler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Meal not found")
		return
	}

	if err := h.service.DeleteCustomMeal(r.Context(), principal(r).ID, id); err != nil {
		h.writeError(w, "delete_meal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
