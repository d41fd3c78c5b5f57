package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/fastfood/internal/middleware"
	"github.com/mmeshcher/fastfood/internal/service"
	"github.com/mmeshcher/fastfood/internal/validation"
)

// Коды ошибок в теле ответа.
const (
	codeInvalidRequest       = middleware.CodeInvalidRequest
	codeValidationFailed     = middleware.CodeValidationFailed
	codeNotFound             = middleware.CodeNotFound
	codeForbidden            = middleware.CodeForbidden
	codeConflict             = middleware.CodeConflict
	codePaymentMethodMissing = middleware.CodePaymentMethodMissing
	codeInvalidTransition    = middleware.CodeInvalidTransition
	codePayloadTooLarge      = middleware.CodePayloadTooLarge
	codeInternal             = middleware.CodeInternal
)

type errorResponse = middleware.ErrorResponse

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Code: codeInvalidRequest, Message: msg})
}

func (h *Handler) notFound(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusNotFound, errorResponse{Code: codeNotFound, Message: msg})
}

// writeError переводит ошибку сервиса в HTTP-ответ. Непредвиденные ошибки логируются с тегом операции.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var (
		verrs     validation.Errors
		missing   *service.MissingMealsError
		forbidden *service.ForbiddenMealsError
		unknown   *service.UnknownMenuMealError
		trans     *service.TransitionError
	)

	switch {
	case errors.As(err, &verrs):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeValidationFailed,
			Message: "Validation failed",
			Fields:  verrs,
		})
	case errors.Is(err, service.ErrPaymentMethodMissing):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codePaymentMethodMissing,
			Message: message(err, "Payment method is required"),
		})
	case errors.As(err, &trans):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeInvalidTransition,
			Message: trans.Error(),
			From:    trans.From,
			To:      trans.To,
		})
	case errors.As(err, &unknown):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeInvalidRequest,
			Message: unknown.Error(),
			MealID:  unknown.MealID,
		})
	case errors.As(err, &missing):
		h.writeJSON(w, http.StatusNotFound, errorResponse{
			Code:    codeNotFound,
			Message: missing.Error(),
			Missing: missing.IDs,
		})
	case errors.As(err, &forbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{
			Code:       codeForbidden,
			Message:    forbidden.Error(),
			NotAllowed: forbidden.IDs,
		})
	case errors.Is(err, service.ErrInvalidRequest):
		h.badRequest(w, message(err, "Invalid request"))
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, message(err, "Not found"))
	case errors.Is(err, service.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Code: codeForbidden, Message: message(err, "Forbidden")})
	case errors.Is(err, service.ErrConflict):
		h.writeJSON(w, http.StatusConflict, errorResponse{Code: codeConflict, Message: message(err, "Conflict")})
	default:
		h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Code: codeInternal, Message: "Server error"})
	}
}

func message(err error, fallback string) string {
	var se *service.Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
