package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/sales"
)

var _ sales.Repo = (*SalesStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sales (
	sale_id          BIGINT PRIMARY KEY,
	device_id        BIGINT NOT NULL,
	shop_id          BIGINT NOT NULL,
	company_id       BIGINT NOT NULL,
	sum              DOUBLE PRECISION NOT NULL,
	sale_date_time   TIMESTAMPTZ NOT NULL,
	server_date_time TIMESTAMPTZ NOT NULL,
	pay_type         INTEGER NOT NULL,
	pay_details      TEXT NOT NULL DEFAULT '',
	is_fiscal        BOOLEAN NOT NULL,
	customer_id      BIGINT
);
CREATE INDEX IF NOT EXISTS sales_sale_date_time_idx ON sales (sale_date_time);`

const selectColumns = `sale_id, device_id, shop_id, company_id, sum, sale_date_time, server_date_time,
	pay_type, pay_details, is_fiscal, customer_id`

const upsert = `
	INSERT INTO sales (sale_id, device_id, shop_id, company_id, sum, sale_date_time, server_date_time,
	                   pay_type, pay_details, is_fiscal, customer_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (sale_id) DO UPDATE SET
		device_id = EXCLUDED.device_id,
		shop_id = EXCLUDED.shop_id,
		company_id = EXCLUDED.company_id,
		sum = EXCLUDED.sum,
		sale_date_time = EXCLUDED.sale_date_time,
		server_date_time = EXCLUDED.server_date_time,
		pay_type = EXCLUDED.pay_type,
		pay_details = EXCLUDED.pay_details,
		is_fiscal = EXCLUDED.is_fiscal,
		customer_id = EXCLUDED.customer_id`

// SalesStore keeps synced sales in postgres
type SalesStore struct {
	db *sql.DB
}

func NewSalesStore(db *sql.DB) *SalesStore {
	return &SalesStore{db: db}
}

// EnsureSchema creates the sales table when it does not exist
func (s *SalesStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create sales schema")
	}
	return nil
}

// UpsertBatch writes all sales in a single transaction
func (s *SalesStore) UpsertBatch(ctx context.Context, batch []sales.Sale) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return errors.Wrap(err, "failed to prepare sales upsert")
	}
	defer stmt.Close()

	for _, sale := range batch {
		var customerID sql.NullInt64
		if sale.CustomerID != nil {
			customerID = sql.NullInt64{Int64: *sale.CustomerID, Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			sale.SaleID, sale.DeviceID, sale.ShopID, sale.CompanyID, sale.Sum,
			sale.SaleDateTime, sale.ServerDateTime, sale.PayType, sale.PayDetails,
			sale.IsFiscal, customerID)
		if err != nil {
			return errors.Wrapf(err, "failed to upsert sale %d", sale.SaleID)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (s *SalesStore) Get(ctx context.Context, saleID int64) (*sales.Sale, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sales WHERE sale_id = $1`, saleID)
	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *SalesStore) ListBetween(ctx context.Context, from, to time.Time) ([]sales.Sale, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM sales WHERE sale_date_time BETWEEN $1 AND $2 ORDER BY sale_date_time`,
		from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query sales")
	}
	defer rows.Close()

	list := make([]sales.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to query sales")
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSale(row scanner) (sales.Sale, error) {
	var (
		sale       sales.Sale
		customerID sql.NullInt64
	)
	err := row.Scan(&sale.SaleID, &sale.DeviceID, &sale.ShopID, &sale.CompanyID, &sale.Sum,
		&sale.SaleDateTime, &sale.ServerDateTime, &sale.PayType, &sale.PayDetails,
		&sale.IsFiscal, &customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return sales.Sale{}, err
	}
	if err != nil {
		return sales.Sale{}, errors.Wrap(err, "failed to scan sale")
	}
	if customerID.Valid {
		sale.CustomerID = &customerID.Int64
	}
	return sale, nil
}
