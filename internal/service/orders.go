package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fastfood/internal/events"
	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/repository"
)

// OrderItemInput описывает строку в запросе создания заказа.
type OrderItemInput struct {
	MealID   string `json:"mealId" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=1000"`
}

// PlaceOrderRequest описывает запрос создания заказа.
type PlaceOrderRequest struct {
	RestaurantID    string            `json:"restaurantId" validate:"required,uuid"`
	Items           []OrderItemInput  `json:"items" validate:"required,min=1,max=100,dive"`
	Fulfillment     model.Fulfillment `json:"fulfillment"`
	DeliveryAddress string            `json:"deliveryAddress" validate:"max=500"`
	DistanceKm      *float64          `json:"distanceKm" validate:"omitempty,gte=0,lte=1000"`
}

// maxOrderTotal соответствует точности денежных колонок заказа NUMERIC(12,2).
var maxOrderTotal = decimal.RequireFromString("9999999999.99")

// PlaceOrder оформляет заказ покупателя по текущему меню ресторана.
//
// Чтение меню, подсчёт очереди и запись заказа выполняются в одной транзакции
// под блокировкой строки ресторана, поэтому параллельные заказы и замена меню
// одного ресторана сериализуются.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (*model.Order, error) {
	if !req.Fulfillment.Valid() {
		return nil, invalid("fulfillment must be pickup or delivery")
	}
	if !s.policy.AllowsFulfillment(req.Fulfillment) {
		return nil, errPickupOnly
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	delivery := req.Fulfillment == model.FulfillmentDelivery
	if delivery && strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, invalid("deliveryAddress is required for delivery orders")
	}

	var order *model.Order
	err := s.repo.WithTx(ctx, func(st repository.Store) error {
		rest, err := st.LockRestaurant(ctx, req.RestaurantID)
		if err != nil {
			if errors.Is(err, repository.ErrRestaurantNotFound) {
				return errRestaurantNotFound
			}
			return err
		}

		prices := rest.PriceIndex()

		payment, err := s.paymentMethod(ctx, st, customerID)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(req.Items))
		seen := make(map[string]struct{}, len(req.Items))
		for _, it := range req.Items {
			if _, ok := prices[it.MealID]; !ok {
				return &UnknownMenuMealError{MealID: it.MealID}
			}
			if _, ok := seen[it.MealID]; !ok {
				seen[it.MealID] = struct{}{}
				ids = append(ids, it.MealID)
			}
		}

		meals, err := st.GetMealsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(meals))
		for _, m := range meals {
			names[m.ID] = m.Name
		}
		if len(names) != len(ids) {
			return &MissingMealsError{Message: "One or more meals were not found", IDs: absent(ids, names)}
		}

		o := &model.Order{
			ID:            uuid.NewString(),
			CustomerID:    customerID,
			RestaurantID:  rest.ID,
			Items:         make([]model.LineItem, 0, len(req.Items)),
			Fulfillment:   req.Fulfillment,
			Subtotal:      decimal.Zero,
			DeliveryFee:   decimal.Zero,
			DistanceKm:    decimal.Zero,
			PaymentMethod: payment,
			Status:        model.OrderStatusOrdered,
		}

		for _, it := range req.Items {
			li := model.LineItem{
				MealID:        it.MealID,
				NameSnapshot:  names[it.MealID],
				PriceSnapshot: prices[it.MealID],
				Quantity:      it.Quantity,
			}
			o.Items = append(o.Items, li)
			o.Subtotal = o.Subtotal.Add(li.LineTotal())
		}

		if delivery && s.policy.Delivery {
			o.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
			if req.DistanceKm != nil {
				o.DistanceKm = decimal.NewFromFloat(*req.DistanceKm).Round(2)
			}
			o.DeliveryFee = s.deliveryFee.Fee(o.DistanceKm).Round(2)
		}
		o.Total = o.Subtotal.Add(o.DeliveryFee)
		if o.Total.GreaterThan(maxOrderTotal) {
			return errOrderTooLarge
		}

		queue, err := st.CountOrdersByStatus(ctx, rest.ID, model.OpenStatuses)
		if err != nil {
			return err
		}
		o.EstimatedReadyAt = s.now().Add(time.Duration(queue+1) * s.prepPerOrder)

		if err := st.InsertOrder(ctx, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.publish(ctx, events.TypeOrderCreated, order)

	return order, nil
}

func (s *Service) paymentMethod(ctx context.Context, st repository.Store, userID string) (model.PaymentMethod, error) {
	u, err := st.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", errPaymentMethodMissing
		}
		return "", err
	}
	if u.Payment == nil || u.Payment.Method == "" {
		return "", errPaymentMethodMissing
	}
	return u.Payment.Method, nil
}

func absent(ids []string, found map[string]string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// UpdateStatusRequest описывает запрос смены статуса заказа.
type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus переводит заказ в новый статус от имени продавца, владеющего рестораном заказа.
func (s *Service) UpdateStatus(ctx context.Context, sellerID, orderID string, req UpdateStatusRequest) (*model.Order, error) {
	to := req.Status
	if !s.policy.AllowsStatus(to) {
		if to == model.OrderStatusDelivering {
			return nil, errDeliveryDisabled
		}
		return nil, errInvalidStatus
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rest, err := s.repo.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	if rest.SellerID != sellerID {
		return nil, errAccessDenied
	}

	from := order.Status
	if !s.policy.CanTransition(from, to, order.Fulfillment) {
		return nil, &TransitionError{From: from, To: to}
	}

	updatedAt, err := s.repo.UpdateOrderStatus(ctx, order.ID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, &TransitionError{From: from, To: to}
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = to
	order.UpdatedAt = updatedAt

	s.publish(ctx, events.TypeOrderStatusChanged, order)

	return order, nil
}

// ConfirmDelivered подтверждает получение заказа покупателем.
// Пока доставка выключена, операция всегда отклоняется.
func (s *Service) ConfirmDelivered(ctx context.Context, customerID, orderID string) (*model.Order, error) {
	if !s.policy.Delivery {
		return nil, errDeliveryDisabled
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.CustomerID != customerID {
		return nil, errAccessDenied
	}
	if order.Status != model.OrderStatusDelivering {
		return nil, &TransitionError{From: order.Status, To: model.OrderStatusDelivered}
	}

	updatedAt, err := s.repo.UpdateOrderStatus(ctx, order.ID, model.OrderStatusDelivering, model.OrderStatusDelivered)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, &TransitionError{From: order.Status, To: model.OrderStatusDelivered}
		}
		return nil, fmt.Errorf("confirm delivered: %w", err)
	}

	order.Status = model.OrderStatusDelivered
	order.UpdatedAt = updatedAt

	s.publish(ctx, events.TypeOrderStatusChanged, order)

	return order, nil
}

// GetOrder возвращает заказ покупателю-владельцу или продавцу, владеющему рестораном заказа.
func (s *Service) GetOrder(ctx context.Context, p model.Principal, orderID string) (*model.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	switch p.Role {
	case model.RoleCustomer:
		if order.CustomerID == p.ID {
			return order, nil
		}
	case model.RoleSeller:
		rest, err := s.repo.GetRestaurantBySeller(ctx, p.ID)
		if err != nil && !errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, fmt.Errorf("get restaurant: %w", err)
		}
		if rest != nil && rest.ID == order.RestaurantID {
			return order, nil
		}
	}

	return nil, errAccessDenied
}

// Представления списка заказов покупателя.
const (
	OrdersViewActive = "active"
	OrdersViewPast   = "past"
)

// MyOrders возвращает заказы покупателя, новые первыми.
// view: active отбирает незавершённые, past выданные, любое другое значение все заказы.
func (s *Service) MyOrders(ctx context.Context, customerID, view string) ([]model.Order, error) {
	var statuses []model.OrderStatus
	switch view {
	case OrdersViewActive:
		for _, st := range model.OrderStatuses {
			if !st.Terminal() {
				statuses = append(statuses, st)
			}
		}
	case OrdersViewPast:
		statuses = []model.OrderStatus{model.OrderStatusDelivered}
	}

	orders, err := s.repo.ListCustomerOrders(ctx, customerID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	return orders, nil
}

// RestaurantOrders возвращает заказы ресторана продавца, при необходимости только в одном статусе.
func (s *Service) RestaurantOrders(ctx context.Context, sellerID string, status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, errInvalidStatus
	}

	rest, err := s.repo.GetRestaurantBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	var statuses []model.OrderStatus
	if status != "" {
		statuses = []model.OrderStatus{status}
	}

	orders, err := s.repo.ListRestaurantOrders(ctx, rest.ID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list restaurant orders: %w", err)
	}
	return orders, nil
}
