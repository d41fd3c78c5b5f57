package repository

import (
	"context"
	"fmt"

	"github.com/mmeshcher/fastfood/internal/model"
)

// RestaurantStats собирает сводку по заказам ресторана: итоги, разбивку по статусам и topN блюд.
// Средний чек и название ресторана заполняет вызывающая сторона.
func (q *Queries) RestaurantStats(ctx context.Context, restaurantID string, topN int) (*model.RestaurantStats, error) {
	st := &model.RestaurantStats{
		RestaurantID:   restaurantID,
		OrdersByStatus: make(map[model.OrderStatus]int64, len(model.OrderStatuses)),
		TopMeals:       []model.MealStat{},
	}
	for _, s := range model.OrderStatuses {
		st.OrdersByStatus[s] = 0
	}

	err := q.q.QueryRow(ctx,
		`SELECT count(*), COALESCE(SUM(total), 0) FROM orders WHERE restaurant_id = $1`,
		restaurantID,
	).Scan(&st.TotalOrders, &st.RevenueTotal)
	if err != nil {
		return nil, fmt.Errorf("sum orders: %w", err)
	}

	rows, err := q.q.Query(ctx,
		`SELECT status, count(*) FROM orders WHERE restaurant_id = $1 GROUP BY status`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		if s := model.OrderStatus(status); s.Valid() {
			st.OrdersByStatus[s] = n
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	rows, err = q.q.Query(ctx,
		`SELECT oi.meal_id,
		        (array_agg(oi.name_snapshot ORDER BY o.created_at))[1],
		        SUM(oi.quantity),
		        SUM(oi.quantity * oi.price_snapshot)
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.restaurant_id = $1
		 GROUP BY oi.meal_id
		 ORDER BY SUM(oi.quantity) DESC, oi.meal_id
		 LIMIT $2`,
		restaurantID, topN,
	)
	if err != nil {
		return nil, fmt.Errorf("select top meals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.MealStat
		if err := rows.Scan(&m.MealID, &m.Name, &m.TotalQuantity, &m.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan meal stat: %w", err)
		}
		st.TopMeals = append(st.TopMeals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return st, nil
}
