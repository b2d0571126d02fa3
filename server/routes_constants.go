package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthRegister = "/auth/register"
	RouteAuthLogin    = "/auth/login"
	RouteAuthMe       = "/auth/me"

	// KitShop API Routes
	RouteKitShopSales     = "/api/kitshop/sales"
	RouteKitShopSale      = "/api/kitshop/sales/{id}"
	RouteKitShopCustomers = "/api/kitshop/customers"

	// Operational Routes
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
