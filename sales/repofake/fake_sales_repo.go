package fakesalesrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/sales"
)

var _ sales.Repo = (*FakeSalesRepo)(nil)

type FakeSalesRepo struct {
	sales map[int64]sales.Sale
	lock  sync.RWMutex
}

func NewFakeSalesRepo() *FakeSalesRepo {
	return &FakeSalesRepo{sales: make(map[int64]sales.Sale)}
}

func (r *FakeSalesRepo) UpsertBatch(_ context.Context, batch []sales.Sale) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, s := range batch {
		r.sales[s.SaleID] = s
	}
	return nil
}

func (r *FakeSalesRepo) Get(_ context.Context, saleID int64) (*sales.Sale, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	s, ok := r.sales[saleID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &s, nil
}

func (r *FakeSalesRepo) ListBetween(_ context.Context, from, to time.Time) ([]sales.Sale, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]sales.Sale, 0)
	for _, s := range r.sales {
		if s.SaleDateTime.Before(from) || s.SaleDateTime.After(to) {
			continue
		}
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].SaleDateTime.Before(list[j].SaleDateTime)
	})
	return list, nil
}
