package server

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
)

// SalesHandler lists vendor sales between the from and to query parameters. Either bound
// may be omitted and falls back to the default window (yesterday 00:00 to today 23:59:59).
func (s *Server) SalesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := kitshop.DefaultSalesWindow(s.nowTime())

		var err error
		if raw := r.URL.Query().Get("from"); raw != "" {
			if from, err = kitshop.ParseVendorTime(raw); err != nil {
				writeJSONError(w, "invalid_request", "from: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			if to, err = kitshop.ParseVendorTime(raw); err != nil {
				writeJSONError(w, "invalid_request", "to: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		if from.After(to) {
			writeJSONError(w, "invalid_request", "from must not be after to", http.StatusBadRequest)
			return
		}

		sales, err := s.commerce.ListSales(r.Context(), from, to)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"Sales": sales})
	}
}

// SaleDetailHandler returns a single sale with its positions
func (s *Server) SaleDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || saleID <= 0 {
			writeJSONError(w, "invalid_request", "sale id must be a positive integer", http.StatusBadRequest)
			return
		}

		detail, err := s.commerce.SaleDetail(r.Context(), saleID)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

// CustomersHandler lists the vendor's customers
func (s *Server) CustomersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := s.commerce.ListCustomers(r.Context())
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"Customers": customers})
	}
}

// writeGatewayError maps gateway failures to 503 when retryable and 502 otherwise.
// The gateway has already logged the details.
func writeGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, errors.ErrGatewayUnavailable) {
		w.Header().Set("Retry-After", "5")
		writeJSONError(w, "kitshop_unavailable", "commerce backend unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSONError(w, "kitshop_error", "commerce backend returned no data", http.StatusBadGateway)
}
