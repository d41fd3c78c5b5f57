package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFeaturePolicy_PickupChain(t *testing.T) {
	p := FeaturePolicy{}

	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusOrdered, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusDelivered, true},
		{OrderStatusOrdered, OrderStatusDelivered, false},
		{OrderStatusOrdered, OrderStatusOrdered, false},
		{OrderStatusPreparing, OrderStatusOrdered, false},
		{OrderStatusPreparing, OrderStatusDelivering, false},
		{OrderStatusDelivered, OrderStatusOrdered, false},
		{OrderStatusDelivered, OrderStatusPreparing, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		if got := p.CanTransition(tt.from, tt.to, FulfillmentPickup); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}

	if next := p.AllowedNext(OrderStatusDelivered, FulfillmentPickup); len(next) != 0 {
		t.Fatalf("delivered must be terminal, got next %v", next)
	}
}

func TestFeaturePolicy_DeliveryDisabled(t *testing.T) {
	p := FeaturePolicy{}

	if p.AllowsFulfillment(FulfillmentDelivery) {
		t.Fatalf("delivery must be rejected while disabled")
	}
	if !p.AllowsFulfillment(FulfillmentPickup) {
		t.Fatalf("pickup must be accepted")
	}
	if p.AllowsFulfillment("drone") {
		t.Fatalf("unknown fulfillment must be rejected")
	}
	if p.AllowsStatus(OrderStatusDelivering) {
		t.Fatalf("delivering must be rejected while delivery is disabled")
	}
	if p.AllowsStatus("cancelled") {
		t.Fatalf("unknown status must be rejected")
	}
	if p.CanTransition(OrderStatusPreparing, OrderStatusDelivering, FulfillmentDelivery) {
		t.Fatalf("delivering must be unreachable while delivery is disabled")
	}
}

func TestFeaturePolicy_DeliveryEnabled(t *testing.T) {
	p := FeaturePolicy{Delivery: true}

	if !p.AllowsFulfillment(FulfillmentDelivery) {
		t.Fatalf("delivery must be accepted when enabled")
	}
	if !p.CanTransition(OrderStatusPreparing, OrderStatusDelivering, FulfillmentDelivery) {
		t.Fatalf("delivery orders go through delivering")
	}
	if p.CanTransition(OrderStatusPreparing, OrderStatusDelivered, FulfillmentDelivery) {
		t.Fatalf("delivery orders must not skip delivering")
	}
	if !p.CanTransition(OrderStatusDelivering, OrderStatusDelivered, FulfillmentDelivery) {
		t.Fatalf("delivering -> delivered must be allowed")
	}
	if !p.CanTransition(OrderStatusPreparing, OrderStatusDelivered, FulfillmentPickup) {
		t.Fatalf("pickup orders keep the short chain")
	}
}

func TestDeliveryFeeFunc(t *testing.T) {
	f := DeliveryFeeFunc{
		Base:  decimal.RequireFromString("2.00"),
		PerKm: decimal.RequireFromString("0.50"),
		Min:   decimal.RequireFromString("3.00"),
	}

	tests := []struct {
		km   string
		want string
	}{
		{"0", "3"},
		{"2", "3"},
		{"4", "4"},
		{"10.5", "7.25"},
	}

	for _, tt := range tests {
		got := f.Fee(decimal.RequireFromString(tt.km))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Fee(%s) = %s, want %s", tt.km, got, tt.want)
		}
	}
}

func TestRestaurant_PriceIndex(t *testing.T) {
	r := Restaurant{Menu: []MenuItem{
		{MealID: "a", Price: decimal.RequireFromString("5.00"), IsAvailable: true},
		{MealID: "b", Price: decimal.RequireFromString("7.00"), IsAvailable: false},
	}}

	idx := r.PriceIndex()
	if len(idx) != 1 {
		t.Fatalf("index size = %d, want 1", len(idx))
	}
	if p, ok := idx["a"]; !ok || !p.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("price of a = %v, want 5", p)
	}
	if _, ok := idx["b"]; ok {
		t.Fatalf("unavailable item must not be priced")
	}
}

func TestMenuFilter_Match(t *testing.T) {
	entry := MenuEntry{
		Meal: Meal{
			Name:        "Spicy Chicken Burger",
			Category:    "Chicken",
			Ingredients: []string{"Chicken", "Bun", "Chili"},
		},
		Price: decimal.RequireFromString("8.50"),
	}
	lo := decimal.RequireFromString("8.50")
	hi := decimal.RequireFromString("8.49")

	tests := []struct {
		name string
		f    MenuFilter
		want bool
	}{
		{"empty filter", MenuFilter{}, true},
		{"name substring any case", MenuFilter{MealFilter: MealFilter{Name: "chicken bur"}}, true},
		{"category mismatch", MenuFilter{MealFilter: MealFilter{Category: "beef"}}, false},
		{"all ingredients present", MenuFilter{MealFilter: MealFilter{Ingredients: []string{"bun", "CHILI"}}}, true},
		{"one ingredient missing", MenuFilter{MealFilter: MealFilter{Ingredients: []string{"bun", "cheese"}}}, false},
		{"min price inclusive", MenuFilter{MinPrice: &lo}, true},
		{"max price below", MenuFilter{MaxPrice: &hi}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Match(entry); got != tt.want {
				t.Fatalf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIngredients(t *testing.T) {
	got := ParseIngredients(" Bun, ,Chili ,")
	if len(got) != 2 || got[0] != "Bun" || got[1] != "Chili" {
		t.Fatalf("ParseIngredients = %q", got)
	}
	if ParseIngredients("") != nil {
		t.Fatalf("empty input must give nil")
	}
}
