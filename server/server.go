package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/kitshop-gateway/auth"
	"github.com/jrsteele09/kitshop-gateway/internal/config"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
	"github.com/prometheus/client_golang/prometheus"
)

// Commerce is the part of the KitShop gateway the API routes forward to
type Commerce interface {
	ListSales(ctx context.Context, from, to time.Time) ([]kitshop.Sale, error)
	SaleDetail(ctx context.Context, saleID int64) (*kitshop.SaleDetail, error)
	ListCustomers(ctx context.Context) ([]kitshop.Customer, error)
}

var _ Commerce = (*kitshop.Gateway)(nil)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	commerce Commerce
	registry *prometheus.Registry
	metrics  *httpMetrics
	nowTime  func() time.Time
}

type ServerOption func(*Server)

// WithRegistry serves and records metrics on reg instead of a private registry
func WithRegistry(reg *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithNowTime sets the clock used for the default sales window
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func New(config config.Config, authService *auth.Service, commerce Commerce, options ...ServerOption) (*Server, error) {
	if authService == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "[Server New] auth service is required")
	}
	if commerce == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "[Server New] commerce gateway is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		auth:     authService,
		commerce: commerce,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.env = config.GetEnv()
	s.metrics = newHTTPMetrics(s.registry)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
