package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/fastfood/internal/model"
)

const orderColumns = `id, customer_id, restaurant_id, fulfillment, delivery_address, distance_km,
	subtotal, delivery_fee, total, payment_method, estimated_ready_at, status, created_at, updated_at`

func scanOrder(row scanner, o *model.Order) error {
	var fulfillment, payment, status string
	err := row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &fulfillment, &o.DeliveryAddress, &o.DistanceKm,
		&o.Subtotal, &o.DeliveryFee, &o.Total, &payment, &o.EstimatedReadyAt, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}
	o.Fulfillment = model.Fulfillment(fulfillment)
	o.PaymentMethod = model.PaymentMethod(payment)
	o.Status = model.OrderStatus(status)
	return nil
}

// CountOrdersByStatus возвращает количество заказов ресторана в указанных статусах.
func (q *Queries) CountOrdersByStatus(ctx context.Context, restaurantID string, statuses []model.OrderStatus) (int64, error) {
	var n int64
	err := q.q.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE restaurant_id = $1 AND status = ANY($2)`,
		restaurantID, statusStrings(statuses),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// InsertOrder сохраняет заказ вместе со строками.
func (q *Queries) InsertOrder(ctx context.Context, o *model.Order) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO orders (id, customer_id, restaurant_id, fulfillment, delivery_address, distance_km,
		                     subtotal, delivery_fee, total, payment_method, estimated_ready_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		o.ID, o.CustomerID, o.RestaurantID, string(o.Fulfillment), o.DeliveryAddress, o.DistanceKm,
		o.Subtotal, o.DeliveryFee, o.Total, string(o.PaymentMethod), o.EstimatedReadyAt, string(o.Status),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, li := range o.Items {
		batch.Queue(
			`INSERT INTO order_items (order_id, line_no, meal_id, name_snapshot, price_snapshot, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, i, li.MealID, li.NameSnapshot, li.PriceSnapshot, li.Quantity,
		)
	}

	if err := q.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	return nil
}

// GetOrder возвращает заказ вместе со строками.
func (q *Queries) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := scanOrder(q.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []model.Order{o}
	if err := q.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListCustomerOrders возвращает заказы покупателя, новые первыми. Пустой statuses не ограничивает выборку.
func (q *Queries) ListCustomerOrders(ctx context.Context, customerID string, statuses []model.OrderStatus) ([]model.Order, error) {
	return q.listOrders(ctx, `customer_id`, customerID, statuses)
}

// ListRestaurantOrders возвращает заказы ресторана, новые первыми. Пустой statuses не ограничивает выборку.
func (q *Queries) ListRestaurantOrders(ctx context.Context, restaurantID string, statuses []model.OrderStatus) ([]model.Order, error) {
	return q.listOrders(ctx, `restaurant_id`, restaurantID, statuses)
}

func (q *Queries) listOrders(ctx context.Context, column, id string, statuses []model.OrderStatus) ([]model.Order, error) {
	var filter []string
	if len(statuses) > 0 {
		filter = statusStrings(statuses)
	}

	rows, err := q.q.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE `+column+` = $1 AND ($2::text[] IS NULL OR status = ANY($2))
		 ORDER BY created_at DESC, id`,
		id, filter,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := q.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems загружает строки всех заказов одним запросом.
func (q *Queries) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]int, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
		byID[orders[i].ID] = i
		orders[i].Items = []model.LineItem{}
	}

	rows, err := q.q.Query(ctx,
		`SELECT order_id, meal_id, name_snapshot, price_snapshot, quantity
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, line_no`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			li      model.LineItem
		)
		if err := rows.Scan(&orderID, &li.MealID, &li.NameSnapshot, &li.PriceSnapshot, &li.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := byID[orderID]; ok {
			orders[i].Items = append(orders[i].Items, li)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	return nil
}

// UpdateOrderStatus переводит заказ из статуса from в to и возвращает время изменения.
// Если текущий статус уже не from, возвращается ErrStatusConflict.
func (q *Queries) UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (time.Time, error) {
	var updatedAt time.Time
	err := q.q.QueryRow(ctx,
		`UPDATE orders SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING updated_at`,
		id, string(from), string(to),
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrStatusConflict
		}
		return time.Time{}, fmt.Errorf("update order status: %w", err)
	}
	return updatedAt, nil
}
