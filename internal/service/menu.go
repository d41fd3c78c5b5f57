package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

// MenuItemInput описывает позицию в запросе замены меню.
type MenuItemInput struct {
	MealID      string   `json:"mealId" validate:"required,uuid"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=9999999999"`
	IsAvailable *bool    `json:"isAvailable"`
}

// ReplaceMenuRequest описывает замену меню ресторана целиком. Пустой список допустим.
type ReplaceMenuRequest struct {
	Items []MenuItemInput `json:"items" validate:"required,dive"`
}

// normalizeMenu схлопывает повторяющиеся mealId: побеждает последнее значение,
// позиция берётся от первого вхождения.
func normalizeMenu(in []MenuItemInput) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(in))
	pos := make(map[string]int, len(in))

	for _, it := range in {
		item := model.MenuItem{
			MealID:      it.MealID,
			Price:       decimal.NewFromFloat(*it.Price).Round(2),
			IsAvailable: it.IsAvailable == nil || *it.IsAvailable,
		}
		if i, ok := pos[it.MealID]; ok {
			out[i] = item
			continue
		}
		pos[it.MealID] = len(out)
		out = append(out, item)
	}

	return out
}

// ReplaceMenu заменяет меню ресторана продавца и возвращает новый список позиций.
// Все проверки выполняются до записи; при ошибке меню не меняется.
func (s *Service) ReplaceMenu(ctx context.Context, sellerID string, req ReplaceMenuRequest) ([]model.MenuItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	items := normalizeMenu(req.Items)

	err := s.repo.WithTx(ctx, func(st repository.Store) error {
		rest, err := st.LockRestaurantBySeller(ctx, sellerID)
		if err != nil {
			if errors.Is(err, repository.ErrRestaurantNotFound) {
				return errRestaurantNotFound
			}
			return err
		}

		if err := checkMenuMeals(ctx, st, sellerID, items); err != nil {
			return err
		}

		return st.ReplaceMenu(ctx, rest.ID, items)
	})
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return nil, &MissingMealsError{Message: "Some meals were not found"}
		}
		return nil, fmt.Errorf("replace menu: %w", err)
	}

	return items, nil
}

// checkMenuMeals проверяет, что все блюда существуют и доступны продавцу.
func checkMenuMeals(ctx context.Context, st repository.Store, sellerID string, items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MealID)
	}

	meals, err := st.GetMealsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	found := make(map[string]model.Meal, len(meals))
	for _, m := range meals {
		found[m.ID] = m
	}

	var missing, notAllowed []string
	for _, id := range ids {
		m, ok := found[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case !m.SelectableBy(sellerID):
			notAllowed = append(notAllowed, id)
		}
	}

	if len(missing) > 0 {
		return &MissingMealsError{Message: "Some meals were not found", IDs: missing}
	}
	if len(notAllowed) > 0 {
		return &ForbiddenMealsError{IDs: notAllowed}
	}

	return nil
}

// PublicMenu возвращает ресторан и доступные позиции его меню, отобранные фильтром.
func (s *Service) PublicMenu(ctx context.Context, restaurantID string, f model.MenuFilter) (*model.Restaurant, []model.MenuEntry, error) {
	rest, err := s.repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, nil, errRestaurantNotFound
		}
		return nil, nil, fmt.Errorf("get restaurant: %w", err)
	}

	entries, err := s.repo.ListMenuEntries(ctx, rest.ID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("list menu: %w", err)
	}

	return rest, filterMenu(entries, f), nil
}

// OwnMenu возвращает меню ресторана продавца, включая недоступные позиции.
func (s *Service) OwnMenu(ctx context.Context, sellerID string, f model.MenuFilter) (*model.Restaurant, []model.MenuEntry, error) {
	rest, err := s.repo.GetRestaurantBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, nil, errRestaurantNotFound
		}
		return nil, nil, fmt.Errorf("get restaurant: %w", err)
	}

	entries, err := s.repo.ListMenuEntries(ctx, rest.ID, false)
	if err != nil {
		return nil, nil, fmt.Errorf("list menu: %w", err)
	}

	return rest, filterMenu(entries, f), nil
}

func filterMenu(entries []model.MenuEntry, f model.MenuFilter) []model.MenuEntry {
	out := make([]model.MenuEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
