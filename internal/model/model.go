// Package model содержит доменные сущности сервиса заказов FastFood.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role описывает роль аутентифицированного пользователя.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Principal описывает аутентифицированного пользователя, от имени которого выполняется запрос.
type Principal struct {
	ID   string
	Role Role
}

// Meal описывает блюдо каталога: глобальное (из начального импорта) или созданное продавцом.
type Meal struct {
	ID          string
	Name        string
	Category    string
	ImageURL    string
	Ingredients []string
	Measures    []string
	IsGlobal    bool
	// SellerID заполнен только у пользовательских (не глобальных) блюд.
	SellerID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy сообщает, принадлежит ли пользовательское блюдо указанному продавцу.
func (m Meal) OwnedBy(sellerID string) bool {
	return !m.IsGlobal && m.SellerID != nil && *m.SellerID == sellerID
}

// SelectableBy сообщает, может ли продавец добавить блюдо в меню своего ресторана.
func (m Meal) SelectableBy(sellerID string) bool {
	return m.IsGlobal || m.OwnedBy(sellerID)
}

// MenuItem описывает позицию меню ресторана: цену и доступность блюда каталога.
type MenuItem struct {
	MealID      string
	Price       decimal.Decimal
	IsAvailable bool
}

// Restaurant описывает ресторан продавца вместе с его меню.
type Restaurant struct {
	ID        string
	SellerID  string
	Name      string
	Phone     string
	Address   string
	City      string
	Menu      []MenuItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceIndex строит индекс цен по доступным позициям меню.
func (r *Restaurant) PriceIndex() map[string]decimal.Decimal {
	idx := make(map[string]decimal.Decimal, len(r.Menu))
	for _, it := range r.Menu {
		if !it.IsAvailable {
			continue
		}
		idx[it.MealID] = it.Price
	}
	return idx
}

// RestaurantProfile содержит редактируемые продавцом поля ресторана.
type RestaurantProfile struct {
	Name    string
	Phone   string
	Address string
	City    string
}

// MenuEntry объединяет позицию меню с актуальной записью каталога.
type MenuEntry struct {
	Meal        Meal
	Price       decimal.Decimal
	IsAvailable bool
}

// LineItem описывает строку заказа. Название и цена копируются в момент создания заказа.
type LineItem struct {
	MealID        string
	NameSnapshot  string
	PriceSnapshot decimal.Decimal
	Quantity      int
}

// LineTotal возвращает стоимость строки заказа.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.PriceSnapshot.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order описывает заказ покупателя. После создания изменяется только статус.
type Order struct {
	ID               string
	CustomerID       string
	RestaurantID     string
	Items            []LineItem
	Fulfillment      Fulfillment
	DeliveryAddress  string
	DistanceKm       decimal.Decimal
	Subtotal         decimal.Decimal
	DeliveryFee      decimal.Decimal
	Total            decimal.Decimal
	PaymentMethod    PaymentMethod
	EstimatedReadyAt time.Time
	Status           OrderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PaymentMethod описывает способ оплаты, сохранённый в профиле пользователя.
type PaymentMethod string

const (
	PaymentCard    PaymentMethod = "card"
	PaymentPrepaid PaymentMethod = "prepaid"
	PaymentCash    PaymentMethod = "cash"
)

// CardLike сообщает, требует ли способ оплаты данных карты.
func (m PaymentMethod) CardLike() bool {
	return m == PaymentCard || m == PaymentPrepaid
}

// PaymentProfile описывает платёжный профиль пользователя.
type PaymentProfile struct {
	Method     PaymentMethod
	CardBrand  string
	CardLast4  string
	HolderName string
}

// User описывает пользователя в части, используемой при оформлении заказа.
type User struct {
	ID      string
	Role    Role
	Payment *PaymentProfile
}

// MealStat описывает продажи одного блюда.
type MealStat struct {
	MealID        string
	Name          string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
}

// RestaurantStats содержит сводные показатели заказов ресторана.
type RestaurantStats struct {
	RestaurantID   string
	RestaurantName string
	TotalOrders    int64
	RevenueTotal   decimal.Decimal
	AvgOrderValue  decimal.Decimal
	OrdersByStatus map[OrderStatus]int64
	TopMeals       []MealStat
}
