package handler

import (
	"net/http"

	"github.com/mmeshcher/fastfood/internal/service"
)

// GetMyPayment возвращает платёжный профиль текущего пользователя.
func (h *Handler) GetMyPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPaymentProfile(r.Context(), principal(r).ID)
	if err != nil {
		h.writeError(w, "get_payment", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPaymentEnvelope(p))
}

// SetMyPayment сохраняет платёжный профиль текущего пользователя.
func (h *Handler) SetMyPayment(w http.ResponseWriter, r *http.Request) {
	var in service.PaymentProfileInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	p, err := h.service.SetPaymentProfile(r.Context(), principal(r), in)
	if err != nil {
		h.writeError(w, "set_payment", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPaymentEnvelope(p))
}
