package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

// MealInput содержит поля пользовательского блюда при создании и обновлении.
type MealInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=100"`
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
	Ingredients []string `json:"ingredients" validate:"max=50,dive,required,max=100"`
	Measures    []string `json:"measures" validate:"max=50,dive,max=100"`
}

// ListMeals возвращает блюда каталога, отобранные фильтром.
func (s *Service) ListMeals(ctx context.Context, f model.MealFilter) ([]model.Meal, error) {
	meals, err := s.repo.ListMeals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// GetMeal возвращает блюдо каталога.
func (s *Service) GetMeal(ctx context.Context, id string) (*model.Meal, error) {
	m, err := s.repo.GetMeal(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return nil, errMealNotFound
		}
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

// SelectableMeals возвращает блюда, которые продавец может добавить в меню.
func (s *Service) SelectableMeals(ctx context.Context, sellerID string) ([]model.Meal, error) {
	meals, err := s.repo.ListSelectableMeals(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list selectable meals: %w", err)
	}
	return meals, nil
}

// MyCustomMeals возвращает пользовательские блюда продавца.
func (s *Service) MyCustomMeals(ctx context.Context, sellerID string) ([]model.Meal, error) {
	meals, err := s.repo.ListCustomMeals(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list custom meals: %w", err)
	}
	return meals, nil
}

// CreateCustomMeal создаёт пользовательское блюдо продавца.
func (s *Service) CreateCustomMeal(ctx context.Context, sellerID string, in MealInput) (*model.Meal, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	owner := sellerID
	m := &model.Meal{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Ingredients: in.Ingredients,
		Measures:    in.Measures,
		IsGlobal:    false,
		SellerID:    &owner,
	}

	if err := s.repo.CreateMeal(ctx, m); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return m, nil
}

// UpdateCustomMeal обновляет пользовательское блюдо. Чужие и глобальные блюда не находятся.
func (s *Service) UpdateCustomMeal(ctx context.Context, sellerID, id string, in MealInput) (*model.Meal, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	owner := sellerID
	m := &model.Meal{
		ID:          id,
		Name:        in.Name,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Ingredients: in.Ingredients,
		Measures:    in.Measures,
		IsGlobal:    false,
		SellerID:    &owner,
	}

	if err := s.repo.UpdateCustomMeal(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return nil, errMealNotFound
		}
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return m, nil
}

// DeleteCustomMeal удаляет пользовательское блюдо и убирает его из меню ресторана продавца.
func (s *Service) DeleteCustomMeal(ctx context.Context, sellerID, id string) error {
	err := s.repo.WithTx(ctx, func(st repository.Store) error {
		if _, err := st.LockRestaurantBySeller(ctx, sellerID); err != nil &&
			!errors.Is(err, repository.ErrRestaurantNotFound) {
			return err
		}
		return st.DeleteCustomMeal(ctx, id, sellerID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return errMealNotFound
		}
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}
