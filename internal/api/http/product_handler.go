package http

import (
	"net/http"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/query"
	"rental-marketplace-backend/internal/service"
)

type ProductHandler struct {
	productSvc service.ProductService
}

func NewProductHandler(productSvc service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

func (h *ProductHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := query.ParseProductQuery(r.URL.Query())
	page, err := h.productSvc.QueryProducts(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writePage(w, r, page, q.Fields, "products retrieved")
}

func (h *ProductHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	q := query.ParseProductQuery(r.URL.Query())
	page, err := h.productSvc.ListMyProducts(r.Context(), actor, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writePage(w, r, page, q.Fields, "listings retrieved")
}

func (h *ProductHandler) writePage(w http.ResponseWriter, r *http.Request, page *service.ProductPage, fields []string, message string) {
	data, err := project(page.Result, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, message, data, page.Meta)
}

func (h *ProductHandler) Trending(w http.ResponseWriter, r *http.Request) {
	trending, err := h.productSvc.GetTrendingProducts(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if trending == nil {
		trending = []domain.TrendingProduct{}
	}
	writeOK(w, http.StatusOK, "trending products retrieved", trending, nil)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "product retrieved", view, nil)
}

// createProductRequest shadows isParkingIncluded so an omitted flag
// defaults to true.
type createProductRequest struct {
	domain.Product
	IsParkingIncluded *bool `json:"isParkingIncluded"`
}

func (req createProductRequest) product() *domain.Product {
	p := req.Product
	p.IsParkingIncluded = req.IsParkingIncluded == nil || *req.IsParkingIncluded
	return &p
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var req createProductRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.productSvc.CreateProduct(r.Context(), actor, req.product())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "product created", created, nil)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathUUID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.ProductPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.productSvc.UpdateProduct(r.Context(), actor, id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "product updated", updated, nil)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathUUID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.productSvc.DeleteProduct(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "product deleted", nil, nil)
}
