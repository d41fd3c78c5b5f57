package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmeshcher/fastfood/internal/model"
)

const restaurantColumns = `id, seller_id, name, phone, address, city, created_at, updated_at`

func scanRestaurant(row scanner, r *model.Restaurant) error {
	return row.Scan(&r.ID, &r.SellerID, &r.Name, &r.Phone, &r.Address, &r.City, &r.CreatedAt, &r.UpdatedAt)
}

// CreateRestaurant создаёт ресторан. Второй ресторан того же продавца отклоняется уникальным индексом.
func (q *Queries) CreateRestaurant(ctx context.Context, r *model.Restaurant) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO restaurants (id, seller_id, name, phone, address, city)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		r.ID, r.SellerID, r.Name, r.Phone, r.Address, r.City,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrRestaurantExists, r.SellerID)
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

// GetRestaurant возвращает ресторан вместе с меню.
func (q *Queries) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	return q.loadRestaurant(ctx, `id = $1`, id, false)
}

// GetRestaurantBySeller возвращает ресторан продавца вместе с меню.
func (q *Queries) GetRestaurantBySeller(ctx context.Context, sellerID string) (*model.Restaurant, error) {
	return q.loadRestaurant(ctx, `seller_id = $1`, sellerID, false)
}

// LockRestaurant читает ресторан с блокировкой строки до конца транзакции.
// Блокировка сериализует замену меню, оформление заказов и удаление ресторана.
func (q *Queries) LockRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	return q.loadRestaurant(ctx, `id = $1`, id, true)
}

// LockRestaurantBySeller читает ресторан продавца с блокировкой строки до конца транзакции.
func (q *Queries) LockRestaurantBySeller(ctx context.Context, sellerID string) (*model.Restaurant, error) {
	return q.loadRestaurant(ctx, `seller_id = $1`, sellerID, true)
}

func (q *Queries) loadRestaurant(ctx context.Context, where string, arg string, lock bool) (*model.Restaurant, error) {
	sql := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE ` + where
	if lock {
		sql += ` FOR UPDATE`
	}

	var r model.Restaurant
	if err := scanRestaurant(q.q.QueryRow(ctx, sql, arg), &r); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	menu, err := q.menuItems(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Menu = menu

	return &r, nil
}

func (q *Queries) menuItems(ctx context.Context, restaurantID string) ([]model.MenuItem, error) {
	rows, err := q.q.Query(ctx,
		`SELECT meal_id, price, is_available
		 FROM restaurant_menu_items
		 WHERE restaurant_id = $1
		 ORDER BY position`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.MealID, &it.Price, &it.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// ListRestaurants возвращает рестораны без меню. Пустой city не ограничивает выборку.
func (q *Queries) ListRestaurants(ctx context.Context, city string) ([]model.Restaurant, error) {
	rows, err := q.q.Query(ctx,
		`SELECT `+restaurantColumns+`
		 FROM restaurants
		 WHERE ($1::text = '' OR lower(city) = lower($1))
		 ORDER BY name, created_at`,
		city,
	)
	if err != nil {
		return nil, fmt.Errorf("select restaurants: %w", err)
	}
	defer rows.Close()

	var res []model.Restaurant
	for rows.Next() {
		var r model.Restaurant
		if err := scanRestaurant(rows, &r); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		res = append(res, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateRestaurantProfile обновляет редактируемые поля ресторана.
func (q *Queries) UpdateRestaurantProfile(ctx context.Context, id string, p model.RestaurantProfile) (*model.Restaurant, error) {
	var r model.Restaurant
	err := scanRestaurant(q.q.QueryRow(ctx,
		`UPDATE restaurants
		 SET name = $2, phone = $3, address = $4, city = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+restaurantColumns,
		id, p.Name, p.Phone, p.Address, p.City,
	), &r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return &r, nil
}

// DeleteRestaurant удаляет ресторан и его меню.
func (q *Queries) DeleteRestaurant(ctx context.Context, id string) error {
	tag, err := q.q.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// ReplaceMenu полностью заменяет меню ресторана. Порядок items сохраняется.
// Вызывается внутри транзакции, удерживающей блокировку ресторана.
func (q *Queries) ReplaceMenu(ctx context.Context, restaurantID string, items []model.MenuItem) error {
	if _, err := q.q.Exec(ctx, `DELETE FROM restaurant_menu_items WHERE restaurant_id = $1`, restaurantID); err != nil {
		return fmt.Errorf("clear menu: %w", err)
	}

	if len(items) > 0 {
		batch := &pgx.Batch{}
		for i, it := range items {
			batch.Queue(
				`INSERT INTO restaurant_menu_items (restaurant_id, meal_id, price, is_available, position)
				 VALUES ($1, $2, $3, $4, $5)`,
				restaurantID, it.MealID, it.Price, it.IsAvailable, i,
			)
		}

		if err := q.q.SendBatch(ctx, batch).Close(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return fmt.Errorf("%w: %s", ErrMealNotFound, pgErr.Detail)
			}
			return fmt.Errorf("insert menu items: %w", err)
		}
	}

	if _, err := q.q.Exec(ctx, `UPDATE restaurants SET updated_at = now() WHERE id = $1`, restaurantID); err != nil {
		return fmt.Errorf("touch restaurant: %w", err)
	}

	return nil
}

// ListMenuEntries возвращает позиции меню, объединённые с текущими записями каталога.
func (q *Queries) ListMenuEntries(ctx context.Context, restaurantID string, onlyAvailable bool) ([]model.MenuEntry, error) {
	rows, err := q.q.Query(ctx,
		`SELECT mi.price, mi.is_available, `+mealColumns+`
		 FROM restaurant_menu_items mi
		 JOIN meals m ON m.id = mi.meal_id
		 WHERE mi.restaurant_id = $1 AND (NOT $2::boolean OR mi.is_available)
		 ORDER BY mi.position`,
		restaurantID, onlyAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("select menu entries: %w", err)
	}
	defer rows.Close()

	entries := []model.MenuEntry{}
	for rows.Next() {
		var (
			e model.MenuEntry
			m = &e.Meal
		)
		if err := rows.Scan(&e.Price, &e.IsAvailable,
			&m.ID, &m.Name, &m.Category, &m.ImageURL, &m.Ingredients, &m.Measures,
			&m.IsGlobal, &m.SellerID, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan menu entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}
