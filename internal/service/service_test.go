package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/fastfood/internal/events"
	"github.com/mmeshcher/fastfood/internal/model"
)

const (
	sellerA    = "seller-a"
	sellerB    = "seller-b"
	customerID = "customer-1"

	restaurantA = "0b8e7c1a-0000-4000-8000-00000000000a"
	restaurantB = "0b8e7c1a-0000-4000-8000-00000000000b"

	mealBurger = "6f1c2d3e-0000-4000-8000-000000000001"
	mealFries  = "6f1c2d3e-0000-4000-8000-000000000002"
	mealWrapA  = "6f1c2d3e-0000-4000-8000-000000000003"
	mealWrapB  = "6f1c2d3e-0000-4000-8000-000000000004"
	mealGhost  = "6f1c2d3e-0000-4000-8000-000000000099"
)

var testNow = time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fptr(f float64) *float64 { return &f }

func bptr(b bool) *bool { return &b }

// seedStore создаёт каталог из двух глобальных блюд и двух пользовательских (по одному у каждого продавца),
// ресторан продавца A с меню {burger: 5.00, fries: 2.50 (недоступен)} и покупателя с оплатой картой.
func seedStore() *memStore {
	st := newMemStore()

	a, b := sellerA, sellerB
	st.meals[mealBurger] = model.Meal{ID: mealBurger, Name: "Burger", Category: "Beef", Ingredients: []string{"Bun", "Beef", "Cheese"}, IsGlobal: true}
	st.meals[mealFries] = model.Meal{ID: mealFries, Name: "Fries", Category: "Side", Ingredients: []string{"Potato", "Salt"}, IsGlobal: true}
	st.meals[mealWrapA] = model.Meal{ID: mealWrapA, Name: "Wrap A", Category: "Chicken", SellerID: &a}
	st.meals[mealWrapB] = model.Meal{ID: mealWrapB, Name: "Wrap B", Category: "Chicken", SellerID: &b}

	st.restaurants[restaurantA] = model.Restaurant{
		ID:       restaurantA,
		SellerID: sellerA,
		Name:     "Alpha",
		Address:  "Via Roma 1",
		City:     "Milano",
		Menu: []model.MenuItem{
			{MealID: mealBurger, Price: price("5.00"), IsAvailable: true},
			{MealID: mealFries, Price: price("2.50"), IsAvailable: false},
		},
	}

	st.users[customerID] = model.User{
		ID:      customerID,
		Role:    model.RoleCustomer,
		Payment: &model.PaymentProfile{Method: model.PaymentCard, CardBrand: "Visa", CardLast4: "4242", HolderName: "Ann"},
	}

	return st
}

func newTestService(st *memStore, pub *recordingPublisher, policy model.FeaturePolicy) *Service {
	return NewService(st, pub, Options{
		PrepPerOrder: 10 * time.Minute,
		Policy:       policy,
		DeliveryFee: model.DeliveryFeeFunc{
			Base:  price("2.00"),
			PerKm: price("0.50"),
			Min:   price("3.00"),
		},
		Now: func() time.Time { return testNow },
	})
}

func TestNewService_Defaults(t *testing.T) {
	s := NewService(newMemStore(), nil, Options{})

	assert.NotNil(t, s.logger)
	assert.NotNil(t, s.now)
	assert.IsType(t, events.NopPublisher{}, s.publisher)
	assert.NoError(t, s.Close())
}

func TestService_Ping(t *testing.T) {
	st := newMemStore()
	s := newTestService(st, &recordingPublisher{}, model.FeaturePolicy{})
	require.NoError(t, s.Ping(context.Background()))

	st.failOn, st.failErr = "Ping", errors.New("db down")
	assert.Error(t, s.Ping(context.Background()))
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	st := seedStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := newTestService(st, pub, model.FeaturePolicy{})

	order, err := s.PlaceOrder(context.Background(), customerID, PlaceOrderRequest{
		RestaurantID: restaurantA,
		Items:        []OrderItemInput{{MealID: mealBurger, Quantity: 1}},
		Fulfillment:  model.FulfillmentPickup,
	})
	require.NoError(t, err)
	assert.Contains(t, st.orders, order.ID)
	assert.Equal(t, []string{events.TypeOrderCreated}, pub.types())
}
