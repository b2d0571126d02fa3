package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/kitshop-gateway/auth"
	"github.com/jrsteele09/kitshop-gateway/internal/config"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
	"github.com/jrsteele09/kitshop-gateway/server"
	"github.com/jrsteele09/kitshop-gateway/token"
	fakeuserrepo "github.com/jrsteele09/kitshop-gateway/users/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testUserLogin    = "shop-manager"
	testUserPassword = "Password123"
)

var testNow = time.Date(2024, time.January, 2, 15, 30, 0, 0, time.UTC)

type fakeCommerce struct {
	mu        sync.Mutex
	from, to  time.Time
	saleID    int64
	sales     []kitshop.Sale
	detail    *kitshop.SaleDetail
	customers []kitshop.Customer
	err       error
	panicMsg  string
}

func (f *fakeCommerce) ListSales(_ context.Context, from, to time.Time) ([]kitshop.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.from, f.to = from, to
	return f.sales, f.err
}

func (f *fakeCommerce) SaleDetail(_ context.Context, saleID int64) (*kitshop.SaleDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saleID = saleID
	return f.detail, f.err
}

func (f *fakeCommerce) ListCustomers(context.Context) ([]kitshop.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers, f.err
}

type testFixture struct {
	server   *server.Server
	auth     *auth.Service
	signer   token.Signer
	commerce *fakeCommerce
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com")

	store := token.NewSecretStore("JWT_SECRET_KEY", token.WithLookup(func(string) (string, bool) {
		return "server-test-secret", true
	}))
	signer := token.NewHMACSigner(store)
	tokens := token.NewManager(signer, token.WithNowFunc(func() time.Time { return testNow }))

	authService, err := auth.NewService(fakeuserrepo.NewFakeUserRepo(), tokens)
	require.NoError(t, err)

	commerce := &fakeCommerce{}
	srv, err := server.New(config.New(), authService, commerce,
		server.WithRegistry(prometheus.NewRegistry()),
		server.WithNowTime(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	return &testFixture{server: srv, auth: authService, signer: signer, commerce: commerce}
}

func (f *testFixture) do(t *testing.T, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) loginToken(t *testing.T) string {
	t.Helper()
	_, err := f.auth.Register(context.Background(), auth.RegisterRequest{Login: testUserLogin, Password: testUserPassword})
	require.NoError(t, err)
	result, err := f.auth.Login(context.Background(), testUserLogin, testUserPassword)
	require.NoError(t, err)
	return result.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := server.New(config.New(), nil, &fakeCommerce{})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteHealth, "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestFixture(t)
	f.do(t, http.MethodGet, server.RouteAuthMe, "", "")

	rec := f.do(t, http.MethodGet, server.RouteMetrics, "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{handler="me",method="GET",status="401"} 1`)
}

func TestCorsPreflight(t *testing.T) {
	f := setupTestFixture(t)
	req := httptest.NewRequest(http.MethodOptions, server.RouteKitShopSales, nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()

	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRequestIDHeader(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteAuthMe, "", "")

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	f := setupTestFixture(t)
	bearer := f.loginToken(t)
	f.commerce.panicMsg = "boom"

	rec := f.do(t, http.MethodGet, server.RouteKitShopSales, "", bearer)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal_error", decodeBody(t, rec)["error"])
}

func TestNew_LogsColouredRoutesInDev(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	f := setupTestFixture(t)
	t.Setenv("ENV", "DEV")
	_, err := server.New(config.New(), f.auth, f.commerce, server.WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	require.Contains(t, out.String(), server.Green+" GET    "+server.ResetColor)
	require.Contains(t, out.String(), server.RouteKitShopSale)
	require.Contains(t, out.String(), server.Yellow+" OPTIONS"+server.ResetColor)
}
