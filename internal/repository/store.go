package repository

import (
	"context"
	"time"

	"github.com/mmeshcher/fastfood/internal/model"
)

// Store описывает операции хранилища, доступные как вне транзакции, так и внутри неё.
type Store interface {
	ListMeals(ctx context.Context, f model.MealFilter) ([]model.Meal, error)
	ListSelectableMeals(ctx context.Context, sellerID string) ([]model.Meal, error)
	ListCustomMeals(ctx context.Context, sellerID string) ([]model.Meal, error)
	GetMeal(ctx context.Context, id string) (*model.Meal, error)
	GetMealsByIDs(ctx context.Context, ids []string) ([]model.Meal, error)
	CreateMeal(ctx context.Context, m *model.Meal) error
	UpdateCustomMeal(ctx context.Context, m *model.Meal) error
	DeleteCustomMeal(ctx context.Context, id, sellerID string) error

	CreateRestaurant(ctx context.Context, r *model.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error)
	GetRestaurantBySeller(ctx context.Context, sellerID string) (*model.Restaurant, error)
	LockRestaurant(ctx context.Context, id string) (*model.Restaurant, error)
	LockRestaurantBySeller(ctx context.Context, sellerID string) (*model.Restaurant, error)
	ListRestaurants(ctx context.Context, city string) ([]model.Restaurant, error)
	UpdateRestaurantProfile(ctx context.Context, id string, p model.RestaurantProfile) (*model.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error
	ReplaceMenu(ctx context.Context, restaurantID string, items []model.MenuItem) error
	ListMenuEntries(ctx context.Context, restaurantID string, onlyAvailable bool) ([]model.MenuEntry, error)

	CountOrdersByStatus(ctx context.Context, restaurantID string, statuses []model.OrderStatus) (int64, error)
	InsertOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string, statuses []model.OrderStatus) ([]model.Order, error)
	ListRestaurantOrders(ctx context.Context, restaurantID string, statuses []model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (time.Time, error)

	GetUser(ctx context.Context, id string) (*model.User, error)
	UpsertPaymentProfile(ctx context.Context, userID string, role model.Role, p model.PaymentProfile) error

	RestaurantStats(ctx context.Context, restaurantID string, topN int) (*model.RestaurantStats, error)
}

func statusStrings(statuses []model.OrderStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
