package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/validation"
)

// Коды ошибок в теле ответа.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeNotFound             = "NOT_FOUND"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodePaymentMethodMissing = "PAYMENT_METHOD_MISSING"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeInternal             = "INTERNAL"
)

// ErrorResponse описывает тело ответа с ошибкой API. Детали заполняются только для своих кодов.
type ErrorResponse struct {
	Code       string                  `json:"code"`
	Message    string                  `json:"message"`
	Fields     []validation.FieldError `json:"fields,omitempty"`
	Missing    []string                `json:"missing,omitempty"`
	NotAllowed []string                `json:"notAllowed,omitempty"`
	MealID     string                  `json:"mealId,omitempty"`
	From       model.OrderStatus       `json:"from,omitempty"`
	To         model.OrderStatus       `json:"to,omitempty"`
}

// WriteError записывает ошибку API в формате JSON.
func WriteError(w http.ResponseWriter, status int, body ErrorResponse) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
