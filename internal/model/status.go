package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает статус выполнения заказа.
type OrderStatus string

const (
	OrderStatusOrdered    OrderStatus = "ordered"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses перечисляет статусы в порядке жизненного цикла.
var OrderStatuses = []OrderStatus{
	OrderStatusOrdered,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusDelivered,
}

// Valid сообщает, входит ли статус в допустимое множество.
func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses, s)
}

// Terminal сообщает, является ли статус конечным.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered
}

// OpenStatuses перечисляет статусы заказов, стоящих в очереди на приготовление.
var OpenStatuses = []OrderStatus{OrderStatusOrdered, OrderStatusPreparing}

// Fulfillment описывает способ получения заказа.
type Fulfillment string

const (
	FulfillmentPickup   Fulfillment = "pickup"
	FulfillmentDelivery Fulfillment = "delivery"
)

// Valid сообщает, известен ли способ получения.
func (f Fulfillment) Valid() bool {
	return f == FulfillmentPickup || f == FulfillmentDelivery
}

// FeaturePolicy управляет включением функциональности, которая пока отключена.
type FeaturePolicy struct {
	Delivery bool
}

// AllowsFulfillment сообщает, принимаются ли сейчас заказы с указанным способом получения.
func (p FeaturePolicy) AllowsFulfillment(f Fulfillment) bool {
	switch f {
	case FulfillmentPickup:
		return true
	case FulfillmentDelivery:
		return p.Delivery
	default:
		return false
	}
}

// AllowsStatus сообщает, можно ли сейчас переводить заказы в указанный статус.
func (p FeaturePolicy) AllowsStatus(s OrderStatus) bool {
	if s == OrderStatusDelivering {
		return p.Delivery
	}
	return s.Valid()
}

// AllowedNext возвращает статусы, в которые можно перевести заказ из текущего.
// Для самовывоза цепочка линейная: ordered → preparing → delivered.
func (p FeaturePolicy) AllowedNext(current OrderStatus, f Fulfillment) []OrderStatus {
	switch current {
	case OrderStatusOrdered:
		return []OrderStatus{OrderStatusPreparing}
	case OrderStatusPreparing:
		if p.Delivery && f == FulfillmentDelivery {
			return []OrderStatus{OrderStatusDelivering}
		}
		return []OrderStatus{OrderStatusDelivered}
	case OrderStatusDelivering:
		return []OrderStatus{OrderStatusDelivered}
	default:
		return nil
	}
}

// CanTransition сообщает, разрешён ли переход from → to.
func (p FeaturePolicy) CanTransition(from, to OrderStatus, f Fulfillment) bool {
	return slices.Contains(p.AllowedNext(from, f), to)
}

// DeliveryFeeFunc задаёт линейную стоимость доставки от расстояния с нижней границей.
type DeliveryFeeFunc struct {
	Base  decimal.Decimal
	PerKm decimal.Decimal
	Min   decimal.Decimal
}

// Fee вычисляет стоимость доставки на указанное расстояние.
func (f DeliveryFeeFunc) Fee(distanceKm decimal.Decimal) decimal.Decimal {
	raw := f.Base.Add(distanceKm.Mul(f.PerKm))
	return decimal.Max(raw, f.Min)
}
