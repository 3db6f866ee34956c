package http

import (
	"net/http"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/service"
)

type PromotionHandler struct {
	promotionSvc service.PromotionService
}

func NewPromotionHandler(promotionSvc service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionSvc: promotionSvc}
}

func (h *PromotionHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var c domain.Coupon
	if err := decodeBody(w, r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.promotionSvc.CreateCoupon(r.Context(), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "coupon created", &c, nil)
}

func (h *PromotionHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "couponId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.promotionSvc.GetCoupon(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "coupon retrieved", c, nil)
}

func (h *PromotionHandler) CreateFlashSale(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var f domain.FlashSale
	if err := decodeBody(w, r, &f); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.promotionSvc.CreateFlashSale(r.Context(), actor, &f); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "flash sale created", &f, nil)
}
