package kitshop

// Vendor records keep the vendor's field names in both json and yaml so a record can be
// re-encoded for logs or forwarding without renaming anything. Optional vendor fields
// are pointers so an explicit null survives a round trip.

// Sale is one entry of a GetSales response
type Sale struct {
	SaleID         int64   `json:"SaleId" yaml:"SaleId"`
	DeviceID       int64   `json:"DeviceId" yaml:"DeviceId"`
	ShopID         int64   `json:"ShopId" yaml:"ShopId"`
	CompanyID      int64   `json:"CompanyId" yaml:"CompanyId"`
	Sum            float64 `json:"Sum" yaml:"Sum"`
	SaleDateTime   string  `json:"SaleDateTime" yaml:"SaleDateTime"`
	ServerDateTime string  `json:"ServerDateTime" yaml:"ServerDateTime"`
	PayType        int     `json:"PayType" yaml:"PayType"`
	PayDetails     *string `json:"PayDetails" yaml:"PayDetails"`
	IsFiscal       bool    `json:"IsFiscal" yaml:"IsFiscal"`
	CustomerID     *int64  `json:"CustomerId" yaml:"CustomerId"`
}

// Position is a line item of a sale
type Position struct {
	HasDiscount  bool    `json:"HasDiscount" yaml:"HasDiscount"`
	HasPromotion bool    `json:"HasPromotion" yaml:"HasPromotion"`
	NominalPrice float64 `json:"NominalPrice" yaml:"NominalPrice"`
	PositionID   int64   `json:"PositionId" yaml:"PositionId"`
	Price        float64 `json:"Price" yaml:"Price"`
	ProductID    int64   `json:"ProductId" yaml:"ProductId"`
	Quantity     float64 `json:"Quantity" yaml:"Quantity"`
	SaleID       int64   `json:"SaleId" yaml:"SaleId"`
}

// SaleDetail is the first element of a GetSaleById response with its positions
type SaleDetail struct {
	SaleID         int64      `json:"SaleId" yaml:"SaleId"`
	CompanyID      int64      `json:"CompanyId" yaml:"CompanyId"`
	ShopID         int64      `json:"ShopId" yaml:"ShopId"`
	DeviceID       int64      `json:"DeviceId" yaml:"DeviceId"`
	SaleDateTime   string     `json:"SaleDateTime" yaml:"SaleDateTime"`
	ServerDateTime *string    `json:"ServerDateTime" yaml:"ServerDateTime"`
	Sum            *float64   `json:"Sum" yaml:"Sum"`
	PayType        *int       `json:"PayType" yaml:"PayType"`
	IsFiscal       *bool      `json:"IsFiscal" yaml:"IsFiscal"`
	PayDetails     *string    `json:"PayDetails" yaml:"PayDetails"`
	Positions      []Position `json:"Positions" yaml:"Positions"`
	CustomerID     *int64     `json:"CustomerId" yaml:"CustomerId"`
}

// Customer is one entry of a GetCustomers response
type Customer struct {
	Balance      float64 `json:"Balance" yaml:"Balance"`
	CardNumber   string  `json:"CardNumber" yaml:"CardNumber"`
	CustomerID   int64   `json:"CustomerId" yaml:"CustomerId"`
	CustomerName string  `json:"CustomerName" yaml:"CustomerName"`
	LastPurchase string  `json:"LastPurchase" yaml:"LastPurchase"`
	LoyaltyID    *int64  `json:"LoyaltyId" yaml:"LoyaltyId"`
	Purchases    int     `json:"Purchases" yaml:"Purchases"`
}
