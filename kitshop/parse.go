package kitshop

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Each parse step returns either a typed record or an error wrapping
// errors.ErrVendorPayloadInvalid, so every mapping can be tested on its own.

// envelope is the outer shape shared by every vendor response
type envelope struct {
	ResultCode json.RawMessage `json:"ResultCode"`
	Sales      json.RawMessage `json:"Sales"`
	Customers  json.RawMessage `json:"Customers"`
}

type wireSale struct {
	SaleID         *int64   `json:"SaleId"`
	DeviceID       *int64   `json:"DeviceId"`
	ShopID         *int64   `json:"ShopId"`
	CompanyID      *int64   `json:"CompanyId"`
	Sum            *float64 `json:"Sum"`
	SaleDateTime   *string  `json:"SaleDateTime"`
	ServerDateTime *string  `json:"ServerDateTime"`
	PayType        *int     `json:"PayType"`
	PayDetails     *string  `json:"PayDetails"`
	IsFiscal       *bool    `json:"IsFiscal"`
	CustomerID     *int64   `json:"CustomerId"`
}

type wirePosition struct {
	HasDiscount  *bool    `json:"HasDiscount"`
	HasPromotion *bool    `json:"HasPromotion"`
	NominalPrice *float64 `json:"NominalPrice"`
	PositionID   *int64   `json:"PositionId"`
	Price        *float64 `json:"Price"`
	ProductID    *int64   `json:"ProductId"`
	Quantity     *float64 `json:"Quantity"`
	SaleID       *int64   `json:"SaleId"`
}

type wireSaleDetail struct {
	SaleID         *int64          `json:"SaleId"`
	CompanyID      *int64          `json:"CompanyId"`
	ShopID         *int64          `json:"ShopId"`
	DeviceID       *int64          `json:"DeviceId"`
	SaleDateTime   *string         `json:"SaleDateTime"`
	ServerDateTime *string         `json:"ServerDateTime"`
	Sum            *float64        `json:"Sum"`
	PayType        *int            `json:"PayType"`
	IsFiscal       *bool           `json:"IsFiscal"`
	PayDetails     *string         `json:"PayDetails"`
	Positions      json.RawMessage `json:"Positions"`
	CustomerID     *int64          `json:"CustomerId"`
}

type wireCustomer struct {
	Balance      *float64 `json:"Balance"`
	CardNumber   *string  `json:"CardNumber"`
	CustomerID   *int64   `json:"CustomerId"`
	CustomerName *string  `json:"CustomerName"`
	LastPurchase *string  `json:"LastPurchase"`
	LoyaltyID    *int64   `json:"LoyaltyId"`
	Purchases    *int     `json:"Purchases"`
}

type field struct {
	name    string
	present bool
}

func requireFields(record string, fields ...field) error {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return invalidf("%s missing %s", record, strings.Join(missing, ", "))
	}
	return nil
}

// resultCode returns the ResultCode as sent, empty when the key is missing or null
func (e envelope) resultCode() string {
	code := string(bytes.TrimSpace(e.ResultCode))
	if code == "null" {
		return ""
	}
	return code
}

// accepted reports whether ResultCode is the number zero. Any other value, including
// the string "0", is a rejection.
func (e envelope) accepted() bool {
	var code float64
	if err := json.Unmarshal(e.ResultCode, &code); err != nil {
		return false
	}
	return code == 0 && e.resultCode() != ""
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, invalidf("response body: %v", err)
	}
	return env, nil
}

// parseCollection splits a JSON array into its elements. A missing key or null is invalid.
func parseCollection(raw json.RawMessage, name string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, invalidf("%s is missing", name)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, invalidf("%s is null", name)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, invalidf("%s: %v", name, err)
	}
	return items, nil
}

func parseSale(raw json.RawMessage) (Sale, error) {
	var w wireSale
	if err := json.Unmarshal(raw, &w); err != nil {
		return Sale{}, invalidf("sale: %v", err)
	}
	if err := requireFields("sale",
		field{"SaleId", w.SaleID != nil},
		field{"DeviceId", w.DeviceID != nil},
		field{"ShopId", w.ShopID != nil},
		field{"CompanyId", w.CompanyID != nil},
		field{"Sum", w.Sum != nil},
		field{"SaleDateTime", w.SaleDateTime != nil},
		field{"ServerDateTime", w.ServerDateTime != nil},
		field{"PayType", w.PayType != nil},
		field{"IsFiscal", w.IsFiscal != nil},
	); err != nil {
		return Sale{}, err
	}
	return Sale{
		SaleID:         *w.SaleID,
		DeviceID:       *w.DeviceID,
		ShopID:         *w.ShopID,
		CompanyID:      *w.CompanyID,
		Sum:            *w.Sum,
		SaleDateTime:   *w.SaleDateTime,
		ServerDateTime: *w.ServerDateTime,
		PayType:        *w.PayType,
		PayDetails:     w.PayDetails,
		IsFiscal:       *w.IsFiscal,
		CustomerID:     w.CustomerID,
	}, nil
}

func parseSales(raw json.RawMessage) ([]Sale, error) {
	items, err := parseCollection(raw, "Sales")
	if err != nil {
		return nil, err
	}
	sales := make([]Sale, 0, len(items))
	for i, item := range items {
		sale, err := parseSale(item)
		if err != nil {
			return nil, invalidf("Sales[%d]: %v", i, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func parsePosition(raw json.RawMessage) (Position, error) {
	var w wirePosition
	if err := json.Unmarshal(raw, &w); err != nil {
		return Position{}, invalidf("position: %v", err)
	}
	if err := requireFields("position",
		field{"HasDiscount", w.HasDiscount != nil},
		field{"HasPromotion", w.HasPromotion != nil},
		field{"NominalPrice", w.NominalPrice != nil},
		field{"PositionId", w.PositionID != nil},
		field{"Price", w.Price != nil},
		field{"ProductId", w.ProductID != nil},
		field{"Quantity", w.Quantity != nil},
		field{"SaleId", w.SaleID != nil},
	); err != nil {
		return Position{}, err
	}
	return Position{
		HasDiscount:  *w.HasDiscount,
		HasPromotion: *w.HasPromotion,
		NominalPrice: *w.NominalPrice,
		PositionID:   *w.PositionID,
		Price:        *w.Price,
		ProductID:    *w.ProductID,
		Quantity:     *w.Quantity,
		SaleID:       *w.SaleID,
	}, nil
}

// parseSaleDetail unwraps Sales[0] and maps its Positions one by one
func parseSaleDetail(raw json.RawMessage) (*SaleDetail, error) {
	items, err := parseCollection(raw, "Sales")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, invalidf("Sales is empty")
	}

	var w wireSaleDetail
	if err := json.Unmarshal(items[0], &w); err != nil {
		return nil, invalidf("sale detail: %v", err)
	}
	if err := requireFields("sale detail",
		field{"SaleId", w.SaleID != nil},
		field{"CompanyId", w.CompanyID != nil},
		field{"ShopId", w.ShopID != nil},
		field{"DeviceId", w.DeviceID != nil},
		field{"SaleDateTime", w.SaleDateTime != nil},
	); err != nil {
		return nil, err
	}

	rawPositions, err := parseCollection(w.Positions, "Positions")
	if err != nil {
		return nil, err
	}
	positions := make([]Position, 0, len(rawPositions))
	for i, item := range rawPositions {
		position, err := parsePosition(item)
		if err != nil {
			return nil, invalidf("Positions[%d]: %v", i, err)
		}
		positions = append(positions, position)
	}

	return &SaleDetail{
		SaleID:         *w.SaleID,
		CompanyID:      *w.CompanyID,
		ShopID:         *w.ShopID,
		DeviceID:       *w.DeviceID,
		SaleDateTime:   *w.SaleDateTime,
		ServerDateTime: w.ServerDateTime,
		Sum:            w.Sum,
		PayType:        w.PayType,
		IsFiscal:       w.IsFiscal,
		PayDetails:     w.PayDetails,
		Positions:      positions,
		CustomerID:     w.CustomerID,
	}, nil
}

func parseCustomer(raw json.RawMessage) (Customer, error) {
	var w wireCustomer
	if err := json.Unmarshal(raw, &w); err != nil {
		return Customer{}, invalidf("customer: %v", err)
	}
	if err := requireFields("customer",
		field{"Balance", w.Balance != nil},
		field{"CardNumber", w.CardNumber != nil},
		field{"CustomerId", w.CustomerID != nil},
		field{"CustomerName", w.CustomerName != nil},
		field{"LastPurchase", w.LastPurchase != nil},
		field{"Purchases", w.Purchases != nil},
	); err != nil {
		return Customer{}, err
	}
	return Customer{
		Balance:      *w.Balance,
		CardNumber:   *w.CardNumber,
		CustomerID:   *w.CustomerID,
		CustomerName: *w.CustomerName,
		LastPurchase: *w.LastPurchase,
		LoyaltyID:    w.LoyaltyID,
		Purchases:    *w.Purchases,
	}, nil
}

func parseCustomers(raw json.RawMessage) ([]Customer, error) {
	items, err := parseCollection(raw, "Customers")
	if err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(items))
	for i, item := range items {
		customer, err := parseCustomer(item)
		if err != nil {
			return nil, invalidf("Customers[%d]: %v", i, err)
		}
		customers = append(customers, customer)
	}
	return customers, nil
}
