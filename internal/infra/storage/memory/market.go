package memory

import (
	"context"
	"sync"

	domainmarket "kisansetu/internal/domain/market"
)

// PriceRepository holds market quotes in memory; the set is replaced
// wholesale when fixtures are (re)loaded.
type PriceRepository struct {
	mu     sync.RWMutex
	prices []domainmarket.Price
}

func NewPriceRepository() *PriceRepository {
	return &PriceRepository{}
}

func (r *PriceRepository) ReplaceAll(ctx context.Context, prices []domainmarket.Price) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices = append([]domainmarket.Price(nil), prices...)
	return nil
}

func (r *PriceRepository) Query(ctx context.Context, filter domainmarket.Filter) ([]domainmarket.Price, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domainmarket.Price, 0, len(r.prices))
	for _, price := range r.prices {
		if !price.Matches(filter) {
			continue
		}
		result = append(result, price)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
