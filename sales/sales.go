package sales

import (
	"context"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/internal/utils"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
)

// Sale is the stored projection of a vendor sale
type Sale struct {
	SaleID         int64     `json:"sale_id" yaml:"sale_id"`
	DeviceID       int64     `json:"device_id" yaml:"device_id"`
	ShopID         int64     `json:"shop_id" yaml:"shop_id"`
	CompanyID      int64     `json:"company_id" yaml:"company_id"`
	Sum            float64   `json:"sum" yaml:"sum"`
	SaleDateTime   time.Time `json:"sale_date_time" yaml:"sale_date_time"`
	ServerDateTime time.Time `json:"server_date_time" yaml:"server_date_time"`
	PayType        int       `json:"pay_type" yaml:"pay_type"`
	PayDetails     string    `json:"pay_details" yaml:"pay_details"`
	IsFiscal       bool      `json:"is_fiscal" yaml:"is_fiscal"`
	CustomerID     *int64    `json:"customer_id,omitempty" yaml:"customer_id,omitempty"`
}

// FromVendor converts a vendor record, parsing its timestamps
func FromVendor(v kitshop.Sale) (Sale, error) {
	saleTime, err := kitshop.ParseVendorTime(v.SaleDateTime)
	if err != nil {
		return Sale{}, errors.Wrapf(err, "sale %d SaleDateTime", v.SaleID)
	}
	serverTime, err := kitshop.ParseVendorTime(v.ServerDateTime)
	if err != nil {
		return Sale{}, errors.Wrapf(err, "sale %d ServerDateTime", v.SaleID)
	}

	return Sale{
		SaleID:         v.SaleID,
		DeviceID:       v.DeviceID,
		ShopID:         v.ShopID,
		CompanyID:      v.CompanyID,
		Sum:            v.Sum,
		SaleDateTime:   saleTime,
		ServerDateTime: serverTime,
		PayType:        v.PayType,
		PayDetails:     utils.Value(v.PayDetails),
		IsFiscal:       v.IsFiscal,
		CustomerID:     v.CustomerID,
	}, nil
}

// Repo stores synced sales keyed by SaleID. UpsertBatch replaces existing rows.
type Repo interface {
	UpsertBatch(ctx context.Context, sales []Sale) error
	Get(ctx context.Context, saleID int64) (*Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Sale, error)
}
