package kitshop

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/config"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Vendor operations, also used as endpoint suffixes
const (
	OperationGetSales     = "GetSales"
	OperationGetSaleByID  = "GetSaleById"
	OperationGetCustomers = "GetCustomers"
)

const maxResponseBytes = 32 << 20

// Gateway performs the KitShop API calls. It holds no mutable state and is safe for
// concurrent use. Calls are not retried; deadlines come from the caller's context.
type Gateway struct {
	credential Credential
	baseURL    string
	client     *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
	nowFunc    func() time.Time
}

type GatewayOption func(*Gateway)

func WithBaseURL(baseURL string) GatewayOption {
	return func(g *Gateway) {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(metrics *Metrics) GatewayOption {
	return func(g *Gateway) {
		g.metrics = metrics
	}
}

// WithNowFunc sets the clock used for request ids
func WithNowFunc(nowFunc func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.nowFunc = nowFunc
	}
}

func NewGateway(credential Credential, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		credential: credential,
		baseURL:    config.DefaultVendorBaseURL,
		client:     http.DefaultClient,
		logger:     log.Logger,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type salesFilter struct {
	UpDate string `json:"UpDate"`
	ToDate string `json:"ToDate"`
}

type salesRequest struct {
	Auth   Auth        `json:"Auth"`
	Filter salesFilter `json:"Filter"`
}

type saleRequest struct {
	Auth Auth  `json:"Auth"`
	ID   int64 `json:"Id"`
}

type customersRequest struct {
	Auth Auth `json:"Auth"`
}

// ListSales returns the sales registered between from and to. Both bounds are sent as
// dd.MM.yyyy HH:mm:ss in their own location and treated as inclusive by the vendor.
func (g *Gateway) ListSales(ctx context.Context, from, to time.Time) ([]Sale, error) {
	body := salesRequest{
		Auth: g.credential.AuthHeaders(g.nowFunc()),
		Filter: salesFilter{
			UpDate: formatFilterTime(from),
			ToDate: formatFilterTime(to),
		},
	}
	return call(ctx, g, OperationGetSales, body, func(env envelope) ([]Sale, error) {
		return parseSales(env.Sales)
	})
}

// SaleDetail returns the sale with its positions
func (g *Gateway) SaleDetail(ctx context.Context, saleID int64) (*SaleDetail, error) {
	body := saleRequest{
		Auth: g.credential.AuthHeaders(g.nowFunc()),
		ID:   saleID,
	}
	return call(ctx, g, OperationGetSaleByID, body, func(env envelope) (*SaleDetail, error) {
		return parseSaleDetail(env.Sales)
	})
}

func (g *Gateway) ListCustomers(ctx context.Context) ([]Customer, error) {
	body := customersRequest{
		Auth: g.credential.AuthHeaders(g.nowFunc()),
	}
	return call(ctx, g, OperationGetCustomers, body, func(env envelope) ([]Customer, error) {
		return parseCustomers(env.Customers)
	})
}

// call posts body to the operation endpoint and parses the envelope. Every failure is
// logged here exactly once and returned with a zero result.
func call[T any](ctx context.Context, g *Gateway, operation string, body any, parse func(envelope) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	env, err := g.post(ctx, operation, body)
	if err == nil {
		var result T
		result, err = parse(env)
		if err == nil {
			g.metrics.observe(operation, OutcomeOK, time.Since(start))
			g.logger.Debug().Str("operation", operation).Dur("elapsed", time.Since(start)).Msg("kitshop call succeeded")
			return result, nil
		}
		err = &PayloadError{Operation: operation, Err: err}
	}

	outcome := outcomeOf(err)
	g.metrics.observe(operation, outcome, time.Since(start))
	g.logger.Error().
		Err(err).
		Str("operation", operation).
		Str("outcome", outcome).
		Str("endpoint", config.RedactURL(g.endpoint(operation))).
		Dur("elapsed", time.Since(start)).
		Msg("kitshop call failed")
	return zero, err
}

func (g *Gateway) endpoint(operation string) string {
	return g.baseURL + "/" + operation
}

func (g *Gateway) post(ctx context.Context, operation string, body any) (envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return envelope{}, errors.Wrapf(err, "kitshop %s: encoding request", operation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(operation), bytes.NewReader(payload))
	if err != nil {
		return envelope{}, errors.Wrapf(err, "kitshop %s: building request", operation)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return envelope{}, &UnavailableError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return envelope{}, &HTTPStatusError{Operation: operation, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, &UnavailableError{Operation: operation, Err: err}
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return envelope{}, &PayloadError{Operation: operation, Err: err}
	}
	if !env.accepted() {
		return envelope{}, &RejectedError{Operation: operation, ResultCode: env.resultCode()}
	}
	return env, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, errors.ErrGatewayUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, errors.ErrVendorHTTP):
		return OutcomeHTTPError
	case errors.Is(err, errors.ErrVendorRejected):
		return OutcomeRejected
	default:
		return OutcomePayloadInvalid
	}
}

// NewGatewayFromConfig builds a gateway from the vendor credential triple and base URL
func NewGatewayFromConfig(c config.VendorConfig, opts ...GatewayOption) (*Gateway, error) {
	creds, err := c.GetVendorCredentials()
	if err != nil {
		return nil, err
	}
	credential := NewCredential(creds.CompanyID, creds.UserLogin, creds.Password)
	opts = append([]GatewayOption{WithBaseURL(c.GetVendorBaseURL())}, opts...)
	return NewGateway(credential, opts...), nil
}
