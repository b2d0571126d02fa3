package sales

import (
	"context"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SalesSource is the part of the KitShop gateway the syncer needs
type SalesSource interface {
	ListSales(ctx context.Context, from, to time.Time) ([]kitshop.Sale, error)
}

var _ SalesSource = (*kitshop.Gateway)(nil)

// Report summarises one sync run
type Report struct {
	Fetched int `json:"fetched" yaml:"fetched"`
	Stored  int `json:"stored" yaml:"stored"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Syncer copies vendor sales into a Repo
type Syncer struct {
	source SalesSource
	repo   Repo
	logger zerolog.Logger
}

type SyncerOption func(*Syncer)

func WithLogger(logger zerolog.Logger) SyncerOption {
	return func(s *Syncer) {
		s.logger = logger
	}
}

func NewSyncer(source SalesSource, repo Repo, options ...SyncerOption) *Syncer {
	s := &Syncer{
		source: source,
		repo:   repo,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Sync fetches the sales in [from, to] and upserts them. Records whose timestamps cannot
// be parsed are skipped. Gateway errors are returned unchanged so the caller can decide
// whether to retry.
func (s *Syncer) Sync(ctx context.Context, from, to time.Time) (Report, error) {
	fetched, err := s.source.ListSales(ctx, from, to)
	if err != nil {
		return Report{}, err
	}

	report := Report{Fetched: len(fetched)}
	batch := make([]Sale, 0, len(fetched))
	for _, v := range fetched {
		sale, err := FromVendor(v)
		if err != nil {
			report.Skipped++
			s.logger.Warn().Err(err).Int64("sale_id", v.SaleID).Msg("skipping sale")
			continue
		}
		batch = append(batch, sale)
	}

	if err := s.repo.UpsertBatch(ctx, batch); err != nil {
		return report, errors.Wrapf(err, "storing %d sales", len(batch))
	}
	report.Stored = len(batch)

	s.logger.Info().
		Int("fetched", report.Fetched).
		Int("stored", report.Stored).
		Int("skipped", report.Skipped).
		Msg("sales sync finished")
	return report, nil
}
