package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

// RestaurantInput содержит редактируемые поля ресторана.
type RestaurantInput struct {
	Name    string `json:"name" validate:"max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"required,max=300"`
	City    string `json:"city" validate:"required,max=100"`
}

func (in RestaurantInput) profile() model.RestaurantProfile {
	return model.RestaurantProfile{Name: in.Name, Phone: in.Phone, Address: in.Address, City: in.City}
}

// CreateRestaurant создаёт ресторан продавца. У продавца может быть только один ресторан.
func (s *Service) CreateRestaurant(ctx context.Context, sellerID string, in RestaurantInput) (*model.Restaurant, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	p := in.profile()
	r := &model.Restaurant{
		ID:       uuid.NewString(),
		SellerID: sellerID,
		Name:     p.Name,
		Phone:    p.Phone,
		Address:  p.Address,
		City:     p.City,
		Menu:     []model.MenuItem{},
	}

	if err := s.repo.CreateRestaurant(ctx, r); err != nil {
		if errors.Is(err, repository.ErrRestaurantExists) {
			return nil, conflict("Seller already has a restaurant")
		}
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

// MyRestaurant возвращает ресторан продавца вместе с меню.
func (s *Service) MyRestaurant(ctx context.Context, sellerID string) (*model.Restaurant, error) {
	r, err := s.repo.GetRestaurantBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// GetRestaurant возвращает ресторан по идентификатору.
func (s *Service) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	r, err := s.repo.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// ListRestaurants возвращает рестораны, при необходимости только в указанном городе.
func (s *Service) ListRestaurants(ctx context.Context, city string) ([]model.Restaurant, error) {
	rs, err := s.repo.ListRestaurants(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return rs, nil
}

// UpdateMyRestaurant обновляет профиль ресторана продавца.
func (s *Service) UpdateMyRestaurant(ctx context.Context, sellerID string, in RestaurantInput) (*model.Restaurant, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	cur, err := s.repo.GetRestaurantBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	r, err := s.repo.UpdateRestaurantProfile(ctx, cur.ID, in.profile())
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	r.Menu = cur.Menu
	return r, nil
}

// DeleteMyRestaurant удаляет ресторан продавца вместе с меню.
// Удаление отклоняется, пока у ресторана есть незавершённые заказы.
func (s *Service) DeleteMyRestaurant(ctx context.Context, sellerID string) error {
	pending := make([]model.OrderStatus, 0, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		if !st.Terminal() {
			pending = append(pending, st)
		}
	}

	err := s.repo.WithTx(ctx, func(st repository.Store) error {
		r, err := st.LockRestaurantBySeller(ctx, sellerID)
		if err != nil {
			if errors.Is(err, repository.ErrRestaurantNotFound) {
				return errRestaurantNotFound
			}
			return err
		}

		n, err := st.CountOrdersByStatus(ctx, r.ID, pending)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflict("Restaurant has orders in progress")
		}

		return st.DeleteRestaurant(ctx, r.ID)
	})
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}
