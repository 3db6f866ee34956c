package http

import (
	"net/http"

	"github.com/google/uuid"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/service"
)

type OrderHandler struct {
	orderSvc service.OrderService
}

func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// createOrderRequest carries line items only. Prices, totals and discounts
// in the body are ignored.
type createOrderRequest struct {
	Products      []domain.LineItem    `json:"products"`
	Coupon        *uuid.UUID           `json:"coupon"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

type statusRequest struct {
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var req createOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.PriceAndCreateOrder(r.Context(), actor.UserID, req.Products, req.Coupon, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "order created", order, nil)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, err := h.orderSvc.ListMyOrders(r.Context(), actor.UserID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders := page.Result
	if orders == nil {
		orders = []domain.Order{}
	}
	writeOK(w, http.StatusOK, "orders retrieved", orders, page.Meta)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathUUID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.GetOrder(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "order retrieved", order, nil)
}

func (h *OrderHandler) Reprice(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.RepriceOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "order repriced", order, nil)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orderSvc.UpdateOrderStatus(r.Context(), id, req.Status, req.PaymentStatus)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "order status updated", order, nil)
}
