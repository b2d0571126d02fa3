package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware("register")...))
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginQueryHandler(), s.APIMiddleware("login")...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware("login")...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware("me", s.RequireAuth())...))

	// KitShop API routes (require a valid session token)
	s.RegisterRouteHandler("GET "+RouteKitShopSales, ChainMiddleware(s.SalesHandler(), s.APIMiddleware("kitshop_sales", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteKitShopSale, ChainMiddleware(s.SaleDetailHandler(), s.APIMiddleware("kitshop_sale", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteKitShopCustomers, ChainMiddleware(s.CustomersHandler(), s.APIMiddleware("kitshop_customers", s.RequireAuth())...))

	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware("preflight")...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
}
