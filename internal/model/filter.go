package model

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// MealFilter описывает фильтры каталога блюд. Пустые поля не ограничивают выборку.
type MealFilter struct {
	Name        string
	Category    string
	Ingredients []string
}

// ParseIngredients разбирает список ингредиентов через запятую, отбрасывая пустые элементы.
func ParseIngredients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Match сообщает, удовлетворяет ли блюдо фильтру.
// Название и категория сравниваются по подстроке без учёта регистра, ингредиенты должны присутствовать все.
func (f MealFilter) Match(m Meal) bool {
	if f.Name != "" && !containsFold(m.Name, f.Name) {
		return false
	}
	if f.Category != "" && !containsFold(m.Category, f.Category) {
		return false
	}
	for _, want := range f.Ingredients {
		if !slices.ContainsFunc(m.Ingredients, func(have string) bool {
			return strings.EqualFold(have, want)
		}) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MenuFilter расширяет фильтр блюд диапазоном цен меню. Границы включительные.
type MenuFilter struct {
	MealFilter
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Match сообщает, удовлетворяет ли позиция меню фильтру.
func (f MenuFilter) Match(e MenuEntry) bool {
	if f.MinPrice != nil && e.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && e.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return f.MealFilter.Match(e.Meal)
}
