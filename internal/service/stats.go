package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

const topMealsLimit = 5

// RestaurantStats возвращает сводку по заказам ресторана продавца.
func (s *Service) RestaurantStats(ctx context.Context, sellerID string) (*model.RestaurantStats, error) {
	rest, err := s.repo.GetRestaurantBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	st, err := s.repo.RestaurantStats(ctx, rest.ID, topMealsLimit)
	if err != nil {
		return nil, fmt.Errorf("restaurant stats: %w", err)
	}

	st.RestaurantName = rest.Name
	st.AvgOrderValue = decimal.Zero
	if st.TotalOrders > 0 {
		st.AvgOrderValue = st.RevenueTotal.DivRound(decimal.NewFromInt(st.TotalOrders), 2)
	}

	return st, nil
}
