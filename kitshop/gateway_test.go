package kitshop_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

const salesBody = `{"ResultCode":0,"Sales":[{"SaleId":7,"DeviceId":2,"ShopId":3,"CompanyId":1001,
	"Sum":150.5,"SaleDateTime":"01.01.2024 10:00:00","ServerDateTime":"01.01.2024 10:00:05",
	"PayType":1,"PayDetails":"card","IsFiscal":true,"CustomerId":null}]}`

type recordedRequest struct {
	Path        string
	ContentType string
	Body        map[string]any
}

type vendorStub struct {
	server  *httptest.Server
	mu      sync.Mutex
	last    recordedRequest
	status  int
	payload string
}

func newVendorStub(t *testing.T, status int, payload string) *vendorStub {
	t.Helper()
	stub := &vendorStub{status: status, payload: payload}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		stub.mu.Lock()
		stub.last = recordedRequest{Path: r.URL.Path, ContentType: r.Header.Get("Content-Type"), Body: body}
		status, payload := stub.status, stub.payload
		stub.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *vendorStub) respond(status int, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.payload = status, payload
}

func (s *vendorStub) lastRequest() recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

type gatewayFixture struct {
	gateway *kitshop.Gateway
	metrics *kitshop.Metrics
}

func setupGateway(t *testing.T, baseURL string) gatewayFixture {
	t.Helper()
	metrics := kitshop.NewMetrics(prometheus.NewRegistry())
	gateway := kitshop.NewGateway(
		kitshop.NewCredential(1001, "api-user", "abc"),
		kitshop.WithBaseURL(baseURL),
		kitshop.WithLogger(zerolog.Nop()),
		kitshop.WithMetrics(metrics),
		kitshop.WithNowFunc(func() time.Time { return fixedNow }),
	)
	return gatewayFixture{gateway: gateway, metrics: metrics}
}

func TestListSales_Success(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, salesBody)
	f := setupGateway(t, stub.server.URL)
	from := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 1, 23, 59, 59, 0, time.UTC)

	sales, err := f.gateway.ListSales(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, int64(7), sales[0].SaleID)
	require.Equal(t, "card", *sales[0].PayDetails)
	require.Nil(t, sales[0].CustomerID)

	req := stub.lastRequest()
	require.Equal(t, "/GetSales", req.Path)
	require.Equal(t, "application/json", req.ContentType)
	require.Equal(t, map[string]any{
		"CompanyId": float64(1001),
		"RequestId": "01012024120000",
		"UserLogin": "api-user",
		"Sign":      "0691a2ed3149e2d0373f1b5ba8efa4e9",
	}, req.Body["Auth"])
	require.Equal(t, map[string]any{
		"UpDate": "31.12.2023 00:00:00",
		"ToDate": "01.01.2024 23:59:59",
	}, req.Body["Filter"])

	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests().WithLabelValues(kitshop.OperationGetSales, kitshop.OutcomeOK)))
}

func TestListSales_Failures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
		target  error
		outcome string
	}{
		{"non-OK status", http.StatusInternalServerError, `{"ResultCode":0,"Sales":[]}`, errors.ErrVendorHTTP, kitshop.OutcomeHTTPError},
		{"non-zero result code", http.StatusOK, `{"ResultCode":3,"Sales":[]}`, errors.ErrVendorRejected, kitshop.OutcomeRejected},
		{"missing result code", http.StatusOK, `{"Sales":[]}`, errors.ErrVendorRejected, kitshop.OutcomeRejected},
		{"missing Sales key", http.StatusOK, `{"ResultCode":0}`, errors.ErrVendorPayloadInvalid, kitshop.OutcomePayloadInvalid},
		{"null Sales", http.StatusOK, `{"ResultCode":0,"Sales":null}`, errors.ErrVendorPayloadInvalid, kitshop.OutcomePayloadInvalid},
		{"not json", http.StatusOK, `Service Unavailable`, errors.ErrVendorPayloadInvalid, kitshop.OutcomePayloadInvalid},
		{"sale missing fields", http.StatusOK, `{"ResultCode":0,"Sales":[{"SaleId":1}]}`, errors.ErrVendorPayloadInvalid, kitshop.OutcomePayloadInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newVendorStub(t, tc.status, tc.payload)
			f := setupGateway(t, stub.server.URL)

			sales, err := f.gateway.ListSales(context.Background(), fixedNow.Add(-time.Hour), fixedNow)

			require.Nil(t, sales)
			require.ErrorIs(t, err, tc.target)
			require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests().WithLabelValues(kitshop.OperationGetSales, tc.outcome)))
		})
	}
}

func TestListSales_ErrorDetails(t *testing.T) {
	stub := newVendorStub(t, http.StatusBadGateway, ``)
	f := setupGateway(t, stub.server.URL)

	_, err := f.gateway.ListSales(context.Background(), fixedNow, fixedNow)

	var statusErr *kitshop.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	require.Equal(t, kitshop.OperationGetSales, statusErr.Operation)

	stub.respond(http.StatusOK, `{"ResultCode":5}`)
	_, err = f.gateway.ListSales(context.Background(), fixedNow, fixedNow)

	var rejected *kitshop.RejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, "5", rejected.ResultCode)

	stub.respond(http.StatusOK, `{"ResultCode":"0","Sales":[]}`)
	_, err = f.gateway.ListSales(context.Background(), fixedNow, fixedNow)

	require.True(t, errors.As(err, &rejected))
	require.Equal(t, `"0"`, rejected.ResultCode)
	require.Contains(t, err.Error(), `ResultCode "0"`)
}

func TestListSales_TransportFailure(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, salesBody)
	stub.server.Close()
	f := setupGateway(t, stub.server.URL)

	sales, err := f.gateway.ListSales(context.Background(), fixedNow, fixedNow)

	require.Nil(t, sales)
	require.ErrorIs(t, err, errors.ErrGatewayUnavailable)
	var unavailable *kitshop.UnavailableError
	require.True(t, errors.As(err, &unavailable))
}

func TestListSales_CancelledContext(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, salesBody)
	f := setupGateway(t, stub.server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.gateway.ListSales(ctx, fixedNow, fixedNow)

	require.ErrorIs(t, err, errors.ErrGatewayUnavailable)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSaleDetail(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, `{"ResultCode":0,"Sales":[{"SaleId":7,"CompanyId":1001,"ShopId":3,
		"DeviceId":2,"SaleDateTime":"01.01.2024 10:00:00","Positions":[
		{"HasDiscount":true,"HasPromotion":false,"NominalPrice":10,"PositionId":1,"Price":9,"ProductId":100,"Quantity":2,"SaleId":7},
		{"HasDiscount":false,"HasPromotion":false,"NominalPrice":5,"PositionId":2,"Price":5,"ProductId":101,"Quantity":1,"SaleId":7}]}]}`)
	f := setupGateway(t, stub.server.URL)

	detail, err := f.gateway.SaleDetail(context.Background(), 7)

	require.NoError(t, err)
	require.Equal(t, int64(7), detail.SaleID)
	require.Len(t, detail.Positions, 2)
	require.Equal(t, int64(101), detail.Positions[1].ProductID)

	req := stub.lastRequest()
	require.Equal(t, "/GetSaleById", req.Path)
	require.Equal(t, float64(7), req.Body["Id"])
}

func TestSaleDetail_ZeroPositions(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, `{"ResultCode":0,"Sales":[{"SaleId":7,"CompanyId":1001,"ShopId":3,
		"DeviceId":2,"SaleDateTime":"01.01.2024 10:00:00","Positions":[]}]}`)
	f := setupGateway(t, stub.server.URL)

	detail, err := f.gateway.SaleDetail(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, detail.Positions)
	require.Empty(t, detail.Positions)
}

func TestSaleDetail_EmptySales(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, `{"ResultCode":0,"Sales":[]}`)
	f := setupGateway(t, stub.server.URL)

	detail, err := f.gateway.SaleDetail(context.Background(), 7)

	require.Nil(t, detail)
	require.ErrorIs(t, err, errors.ErrVendorPayloadInvalid)
}

func TestListCustomers(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, `{"ResultCode":0,"Customers":[{"Balance":12.5,"CardNumber":"0001",
		"CustomerId":12,"CustomerName":"Ivan","LastPurchase":"01.01.2024 10:00:00","LoyaltyId":3,"Purchases":4}]}`)
	f := setupGateway(t, stub.server.URL)

	customers, err := f.gateway.ListCustomers(context.Background())

	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, int64(3), *customers[0].LoyaltyID)

	req := stub.lastRequest()
	require.Equal(t, "/GetCustomers", req.Path)
	require.Contains(t, req.Body, "Auth")
	require.NotContains(t, req.Body, "Filter")
}

func TestListCustomers_MissingKey(t *testing.T) {
	stub := newVendorStub(t, http.StatusOK, `{"ResultCode":0,"Sales":[]}`)
	f := setupGateway(t, stub.server.URL)

	customers, err := f.gateway.ListCustomers(context.Background())

	require.Nil(t, customers)
	require.ErrorIs(t, err, errors.ErrVendorPayloadInvalid)
}
