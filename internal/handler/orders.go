package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mmeshcher/fastfood/internal/model"
	"github.com/mmeshcher/fastfood/internal/service"
)

// PlaceOrder оформляет заказ текущего покупателя.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), principal(r).ID, req)
	if err != nil {
		h.writeError(w, "create_order", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, orderEnvelope{Order: newOrderResponse(order)})
}

// MyOrders возвращает заказы текущего покупателя. Параметр type: active, past или пусто.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.MyOrders(r.Context(), principal(r).ID, r.URL.Query().Get("type"))
	if err != nil {
		h.writeError(w, "my_orders", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newOrdersEnvelope(orders))
}

// RestaurantOrders возвращает заказы ресторана продавца, опционально по статусу.
func (h *Handler) RestaurantOrders(w http.ResponseWriter, r *http.Request) {
	status := model.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.service.RestaurantOrders(r.Context(), principal(r).ID, status)
	if err != nil {
		h.writeError(w, "restaurant_orders", err)
		return
	}
	h.writeJSON(w, http.StatusOK, newOrdersEnvelope(orders))
}

// GetOrder возвращает заказ его покупателю или продавцу ресторана.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Order not found")
		return
	}

	order, err := h.service.GetOrder(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, "get_order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, orderEnvelope{Order: newOrderResponse(order)})
}

// UpdateOrderStatus переводит заказ в новый статус от имени продавца.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		h.notFound(w, "Order not found")
		return
	}

	var req service.UpdateStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), principal(r).ID, id, req)
	if err != nil {
		h.writeError(w, "update_order_status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, orderEnvelope{Order: newOrderResponse(order)})
}

// ConfirmDelivered подтверждает получение доставленного заказа покупателем.
func (h *Handler) ConfirmDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.ConfirmDelivered(r.Context(), principal(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "confirm_delivered", err)
		return
	}
	h.writeJSON(w, http.StatusOK, orderEnvelope{Order: newOrderResponse(order)})
}
