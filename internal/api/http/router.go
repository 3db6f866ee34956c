package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/security"
	"rental-marketplace-backend/internal/service"
)

// Services bundles the collaborators the REST API delegates to.
type Services struct {
	Auth       service.AuthService
	Products   service.ProductService
	Orders     service.OrderService
	Promotions service.PromotionService
}

// NewRouter registers every REST route under /api/v1. Route names key the
// security levels in config.EndpointSecurityConfig.
func NewRouter(tokens security.TokenManager, svc Services) *mux.Router {
	auth := NewAuthHandler(svc.Auth)
	products := NewProductHandler(svc.Products)
	orders := NewOrderHandler(svc.Orders)
	promotions := NewPromotionHandler(svc.Promotions)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Message: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Message: "method not allowed"})
	})

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(RequestID, AccessLog, Recover, NewAuthMiddleware(tokens).Handler)

	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost).Name(config.RouteRegister)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost).Name(config.RouteLogin)

	// fixed paths before {productId}
	api.HandleFunc("/products/trending", products.Trending).Methods(http.MethodGet).Name(config.RouteTrending)
	api.HandleFunc("/products/my-listings", products.MyListings).Methods(http.MethodGet).Name(config.RouteMyListings)
	api.HandleFunc("/products", products.Query).Methods(http.MethodGet).Name(config.RouteQueryProducts)
	api.HandleFunc("/products", products.Create).Methods(http.MethodPost).Name(config.RouteCreateProduct)
	api.HandleFunc("/products/{productId}", products.Get).Methods(http.MethodGet).Name(config.RouteGetProduct)
	api.HandleFunc("/products/{productId}", products.Update).Methods(http.MethodPatch).Name(config.RouteUpdateProduct)
	api.HandleFunc("/products/{productId}", products.Delete).Methods(http.MethodDelete).Name(config.RouteDeleteProduct)

	api.HandleFunc("/orders", orders.Create).Methods(http.MethodPost).Name(config.RouteCreateOrder)
	api.HandleFunc("/orders/my-orders", orders.MyOrders).Methods(http.MethodGet).Name(config.RouteMyOrders)
	api.HandleFunc("/orders/{orderId}", orders.Get).Methods(http.MethodGet).Name(config.RouteGetOrder)
	api.HandleFunc("/orders/{orderId}/reprice", orders.Reprice).Methods(http.MethodPost).Name(config.RouteRepriceOrder)
	api.HandleFunc("/orders/{orderId}/status", orders.UpdateStatus).Methods(http.MethodPatch).Name(config.RouteOrderStatus)

	api.HandleFunc("/coupons", promotions.CreateCoupon).Methods(http.MethodPost).Name(config.RouteCreateCoupon)
	api.HandleFunc("/coupons/{couponId}", promotions.GetCoupon).Methods(http.MethodGet).Name(config.RouteGetCoupon)
	api.HandleFunc("/flash-sales", promotions.CreateFlashSale).Methods(http.MethodPost).Name(config.RouteCreateFlashSale)

	return router
}
