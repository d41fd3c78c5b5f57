package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fastfood/internal/model"
)

// money выводит сумму в JSON числом с двумя знаками после точки.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

type mealResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Ingredients []string  `json:"ingredients"`
	Measures    []string  `json:"measures"`
	IsGlobal    bool      `json:"isGlobal"`
	SellerID    *string   `json:"sellerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newMealResponse(m model.Meal) mealResponse {
	return mealResponse{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		Ingredients: nonNil(m.Ingredients),
		Measures:    nonNil(m.Measures),
		IsGlobal:    m.IsGlobal,
		SellerID:    m.SellerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func newMealsResponse(ms []model.Meal) []mealResponse {
	out := make([]mealResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, newMealResponse(m))
	}
	return out
}

type menuItemResponse struct {
	MealID      string `json:"mealId"`
	Price       money  `json:"price"`
	IsAvailable bool   `json:"isAvailable"`
}

func newMenuItemsResponse(items []model.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, menuItemResponse{MealID: it.MealID, Price: money(it.Price), IsAvailable: it.IsAvailable})
	}
	return out
}

type menuEntryResponse struct {
	Meal        mealResponse `json:"meal"`
	Price       money        `json:"price"`
	IsAvailable bool         `json:"isAvailable"`
}

type restaurantSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type menuResponse struct {
	Restaurant restaurantSummary   `json:"restaurant"`
	Menu       []menuEntryResponse `json:"menu"`
}

func newMenuResponse(r *model.Restaurant, entries []model.MenuEntry) menuResponse {
	resp := menuResponse{
		Restaurant: restaurantSummary{ID: r.ID, Name: r.Name},
		Menu:       make([]menuEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Menu = append(resp.Menu, menuEntryResponse{
			Meal:        newMealResponse(e.Meal),
			Price:       money(e.Price),
			IsAvailable: e.IsAvailable,
		})
	}
	return resp
}

type restaurantResponse struct {
	ID        string             `json:"id"`
	SellerID  string             `json:"sellerId"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	City      string             `json:"city"`
	MenuItems []menuItemResponse `json:"menuItems,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func newRestaurantResponse(r *model.Restaurant) restaurantResponse {
	resp := restaurantResponse{
		ID:        r.ID,
		SellerID:  r.SellerID,
		Name:      r.Name,
		Phone:     r.Phone,
		Address:   r.Address,
		City:      r.City,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Menu != nil {
		resp.MenuItems = newMenuItemsResponse(r.Menu)
	}
	return resp
}

type lineItemResponse struct {
	MealID        string `json:"mealId"`
	NameSnapshot  string `json:"nameSnapshot"`
	PriceSnapshot money  `json:"priceSnapshot"`
	Quantity      int    `json:"quantity"`
	LineTotal     money  `json:"lineTotal"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"customerId"`
	RestaurantID     string              `json:"restaurantId"`
	Items            []lineItemResponse  `json:"items"`
	Fulfillment      model.Fulfillment   `json:"fulfillment"`
	DeliveryAddress  string              `json:"deliveryAddress,omitempty"`
	DistanceKm       money               `json:"distanceKm"`
	Subtotal         money               `json:"subtotal"`
	DeliveryFee      money               `json:"deliveryFee"`
	Total            money               `json:"total"`
	PaymentMethod    model.PaymentMethod `json:"paymentMethod"`
	EstimatedReadyAt time.Time           `json:"estimatedReadyAt"`
	Status           model.OrderStatus   `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func newOrderResponse(o *model.Order) orderResponse {
	items := make([]lineItemResponse, 0, len(o.Items))
	for _, li := range o.Items {
		items = append(items, lineItemResponse{
			MealID:        li.MealID,
			NameSnapshot:  li.NameSnapshot,
			PriceSnapshot: money(li.PriceSnapshot),
			Quantity:      li.Quantity,
			LineTotal:     money(li.LineTotal()),
		})
	}

	return orderResponse{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		RestaurantID:     o.RestaurantID,
		Items:            items,
		Fulfillment:      o.Fulfillment,
		DeliveryAddress:  o.DeliveryAddress,
		DistanceKm:       money(o.DistanceKm),
		Subtotal:         money(o.Subtotal),
		DeliveryFee:      money(o.DeliveryFee),
		Total:            money(o.Total),
		PaymentMethod:    o.PaymentMethod,
		EstimatedReadyAt: o.EstimatedReadyAt,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

type orderEnvelope struct {
	Order orderResponse `json:"order"`
}

type ordersEnvelope struct {
	Orders []orderResponse `json:"orders"`
}

func newOrdersEnvelope(orders []model.Order) ordersEnvelope {
	resp := ordersEnvelope{Orders: make([]orderResponse, 0, len(orders))}
	for i := range orders {
		resp.Orders = append(resp.Orders, newOrderResponse(&orders[i]))
	}
	return resp
}

type paymentResponse struct {
	Method     model.PaymentMethod `json:"method"`
	CardBrand  string              `json:"cardBrand,omitempty"`
	CardLast4  string              `json:"cardLast4,omitempty"`
	HolderName string              `json:"holderName,omitempty"`
}

type paymentEnvelope struct {
	Payment *paymentResponse `json:"payment"`
}

func newPaymentEnvelope(p *model.PaymentProfile) paymentEnvelope {
	if p == nil {
		return paymentEnvelope{}
	}
	return paymentEnvelope{Payment: &paymentResponse{
		Method:     p.Method,
		CardBrand:  p.CardBrand,
		CardLast4:  p.CardLast4,
		HolderName: p.HolderName,
	}}
}

type mealStatResponse struct {
	MealID        string `json:"mealId"`
	Name          string `json:"name"`
	TotalQuantity int64  `json:"totalQuantity"`
	TotalRevenue  money  `json:"totalRevenue"`
}

type statsResponse struct {
	Restaurant     restaurantSummary           `json:"restaurant"`
	TotalOrders    int64                       `json:"totalOrders"`
	RevenueTotal   money                       `json:"revenueTotal"`
	AvgOrderValue  money                       `json:"avgOrderValue"`
	OrdersByStatus map[model.OrderStatus]int64 `json:"ordersByStatus"`
	TopMeals       []mealStatResponse          `json:"topMeals"`
}

func newStatsResponse(s *model.RestaurantStats) statsResponse {
	resp := statsResponse{
		Restaurant:     restaurantSummary{ID: s.RestaurantID, Name: s.RestaurantName},
		TotalOrders:    s.TotalOrders,
		RevenueTotal:   money(s.RevenueTotal),
		AvgOrderValue:  money(s.AvgOrderValue),
		OrdersByStatus: s.OrdersByStatus,
		TopMeals:       make([]mealStatResponse, 0, len(s.TopMeals)),
	}
	for _, m := range s.TopMeals {
		resp.TopMeals = append(resp.TopMeals, mealStatResponse{
			MealID:        m.MealID,
			Name:          m.Name,
			TotalQuantity: m.TotalQuantity,
			TotalRevenue:  money(m.TotalRevenue),
		})
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
