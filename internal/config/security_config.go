package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityAccess                        // Access token required
	SecurityLandlord                      // Access token with landlord or admin role
	SecurityAdmin                         // Access token with admin role
)

// Route names registered on the HTTP router.
const (
	RouteRegister        = "auth.register"
	RouteLogin           = "auth.login"
	RouteQueryProducts   = "products.query"
	RouteTrending        = "products.trending"
	RouteMyListings      = "products.myListings"
	RouteGetProduct      = "products.get"
	RouteCreateProduct   = "products.create"
	RouteUpdateProduct   = "products.update"
	RouteDeleteProduct   = "products.delete"
	RouteCreateOrder     = "orders.create"
	RouteMyOrders        = "orders.mine"
	RouteGetOrder        = "orders.get"
	RouteRepriceOrder    = "orders.reprice"
	RouteOrderStatus     = "orders.status"
	RouteCreateCoupon    = "coupons.create"
	RouteGetCoupon       = "coupons.get"
	RouteCreateFlashSale = "flashSales.create"

	// gRPC full method names
	RouteHealthCheck = "/grpc.health.v1.Health/Check"
)

// EndpointSecurityConfig maps route names to their required security level.
// Routes missing from the map require an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	RouteRegister:      SecurityPublic,
	RouteLogin:         SecurityPublic,
	RouteQueryProducts: SecurityPublic,
	RouteTrending:      SecurityPublic,
	RouteGetProduct:    SecurityPublic,
	RouteHealthCheck:   SecurityPublic,

	RouteCreateOrder: SecurityAccess,
	RouteMyOrders:    SecurityAccess,
	RouteGetOrder:    SecurityAccess,

	RouteMyListings:    SecurityLandlord,
	RouteCreateProduct: SecurityLandlord,
	RouteUpdateProduct: SecurityLandlord,
	RouteDeleteProduct: SecurityLandlord,

	RouteRepriceOrder:    SecurityAdmin,
	RouteOrderStatus:     SecurityAdmin,
	RouteCreateCoupon:    SecurityAdmin,
	RouteGetCoupon:       SecurityAdmin,
	RouteCreateFlashSale: SecurityAdmin,
}

// LevelFor returns the security level of a route name.
func LevelFor(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
