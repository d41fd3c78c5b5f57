package service

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/fastfood/internal/model"
)

// Виды ошибок бизнес-логики. Обработчики сопоставляют их с HTTP-статусами через errors.Is.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conflict")
	ErrPaymentMethodMissing = errors.New("payment method missing")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// Error несёт сообщение для пользователя и вид ошибки из перечисленных выше.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(msg string) error   { return &Error{Kind: ErrInvalidRequest, Message: msg} }
func notFound(msg string) error  { return &Error{Kind: ErrNotFound, Message: msg} }
func forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }
func conflict(msg string) error  { return &Error{Kind: ErrConflict, Message: msg} }

var (
	errDeliveryDisabled     = invalid("Delivery is currently disabled.")
	errPickupOnly           = invalid("Delivery is currently disabled. Only pickup orders are allowed.")
	errInvalidStatus        = invalid("Invalid status")
	errOrderTooLarge        = invalid("Order total exceeds the allowed maximum")
	errRestaurantNotFound   = notFound("Restaurant not found")
	errOrderNotFound        = notFound("Order not found")
	errMealNotFound         = notFound("Meal not found")
	errAccessDenied         = forbidden("Forbidden")
	errPaymentMethodMissing = &Error{
		Kind:    ErrPaymentMethodMissing,
		Message: "Payment method is required to place an order. Set it in your profile.",
	}
)

// MissingMealsError сообщает о блюдах, отсутствующих в каталоге.
type MissingMealsError struct {
	Message string
	IDs     []string
}

func (e *MissingMealsError) Error() string { return e.Message }

// Is относит ошибку к ErrNotFound.
func (e *MissingMealsError) Is(target error) bool { return target == ErrNotFound }

// ForbiddenMealsError сообщает о чужих пользовательских блюдах в запросе продавца.
type ForbiddenMealsError struct {
	IDs []string
}

func (e *ForbiddenMealsError) Error() string { return "Some meals are not allowed to be added" }

// Is относит ошибку к ErrForbidden.
func (e *ForbiddenMealsError) Is(target error) bool { return target == ErrForbidden }

// UnknownMenuMealError сообщает о блюде, которого нет в меню ресторана.
type UnknownMenuMealError struct {
	MealID string
}

func (e *UnknownMenuMealError) Error() string {
	return "One or more meals are not in the restaurant menu"
}

// Is относит ошибку к ErrInvalidRequest.
func (e *UnknownMenuMealError) Is(target error) bool { return target == ErrInvalidRequest }

// TransitionError сообщает о недопустимом переходе статуса заказа.
type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Invalid status transition from %s to %s", e.From, e.To)
}

// Is относит ошибку к ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
