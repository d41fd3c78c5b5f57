package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/fastfood/internal/model"
)

const mealColumns = `m.id, m.name, m.category, m.image_url, m.ingredients, m.measures, m.is_global, m.seller_id, m.created_at, m.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(row scanner, m *model.Meal) error {
	return row.Scan(&m.ID, &m.Name, &m.Category, &m.ImageURL, &m.Ingredients, &m.Measures,
		&m.IsGlobal, &m.SellerID, &m.CreatedAt, &m.UpdatedAt)
}

func (q *Queries) queryMeals(ctx context.Context, sql string, args ...any) ([]model.Meal, error) {
	rows, err := q.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		var m model.Meal
		if err := scanMeal(rows, &m); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return meals, nil
}

// ListMeals возвращает блюда каталога, отобранные фильтром, в алфавитном порядке.
func (q *Queries) ListMeals(ctx context.Context, f model.MealFilter) ([]model.Meal, error) {
	return q.queryMeals(ctx,
		`SELECT `+mealColumns+`
		 FROM meals m
		 WHERE ($1::text = '' OR strpos(lower(m.name), lower($1)) > 0)
		   AND ($2::text = '' OR strpos(lower(m.category), lower($2)) > 0)
		   AND NOT EXISTS (
		       SELECT 1 FROM unnest($3::text[]) AS want(v)
		       WHERE NOT EXISTS (
		           SELECT 1 FROM unnest(m.ingredients) AS have(v) WHERE lower(have.v) = lower(want.v)
		       )
		   )
		 ORDER BY m.name`,
		f.Name, f.Category, f.Ingredients,
	)
}

// ListSelectableMeals возвращает глобальные блюда и собственные блюда продавца.
func (q *Queries) ListSelectableMeals(ctx context.Context, sellerID string) ([]model.Meal, error) {
	return q.queryMeals(ctx,
		`SELECT `+mealColumns+`
		 FROM meals m
		 WHERE m.is_global OR m.seller_id = $1
		 ORDER BY m.name`,
		sellerID,
	)
}

// ListCustomMeals возвращает пользовательские блюда продавца.
func (q *Queries) ListCustomMeals(ctx context.Context, sellerID string) ([]model.Meal, error) {
	return q.queryMeals(ctx,
		`SELECT `+mealColumns+`
		 FROM meals m
		 WHERE NOT m.is_global AND m.seller_id = $1
		 ORDER BY m.name`,
		sellerID,
	)
}

// GetMeal возвращает блюдо по идентификатору.
func (q *Queries) GetMeal(ctx context.Context, id string) (*model.Meal, error) {
	var m model.Meal
	err := scanMeal(q.q.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals m WHERE m.id = $1`, id), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return &m, nil
}

// GetMealsByIDs возвращает найденные блюда из списка идентификаторов. Отсутствующие пропускаются.
func (q *Queries) GetMealsByIDs(ctx context.Context, ids []string) ([]model.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return q.queryMeals(ctx,
		`SELECT `+mealColumns+` FROM meals m WHERE m.id = ANY($1)`,
		ids,
	)
}

// CreateMeal сохраняет новое блюдо.
func (q *Queries) CreateMeal(ctx context.Context, m *model.Meal) error {
	err := q.q.QueryRow(ctx,
		`INSERT INTO meals (id, name, category, image_url, ingredients, measures, is_global, seller_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Category, m.ImageURL, nonNil(m.Ingredients), nonNil(m.Measures), m.IsGlobal, m.SellerID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

// UpdateCustomMeal обновляет пользовательское блюдо, принадлежащее m.SellerID.
func (q *Queries) UpdateCustomMeal(ctx context.Context, m *model.Meal) error {
	err := q.q.QueryRow(ctx,
		`UPDATE meals
		 SET name = $3, category = $4, image_url = $5, ingredients = $6, measures = $7, updated_at = now()
		 WHERE id = $1 AND seller_id = $2 AND NOT is_global
		 RETURNING created_at, updated_at`,
		m.ID, m.SellerID, m.Name, m.Category, m.ImageURL, nonNil(m.Ingredients), nonNil(m.Measures),
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMealNotFound
		}
		return fmt.Errorf("update meal: %w", err)
	}
	return nil
}

// DeleteCustomMeal удаляет пользовательское блюдо продавца и убирает его из всех меню.
func (q *Queries) DeleteCustomMeal(ctx context.Context, id, sellerID string) error {
	_, err := q.q.Exec(ctx,
		`DELETE FROM restaurant_menu_items
		 WHERE meal_id = (SELECT id FROM meals WHERE id = $1 AND seller_id = $2 AND NOT is_global)`,
		id, sellerID,
	)
	if err != nil {
		return fmt.Errorf("retract meal from menus: %w", err)
	}

	tag, err := q.q.Exec(ctx,
		`DELETE FROM meals WHERE id = $1 AND seller_id = $2 AND NOT is_global`,
		id, sellerID,
	)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
