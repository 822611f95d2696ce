package market

import (
	"context"
	"errors"

	domainmarket "kisansetu/internal/domain/market"
)

var ErrNotConfigured = errors.New("market: service dependencies missing")

// DefaultLimit caps a query when the caller does not ask for one; MaxLimit
// caps it regardless.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Service answers market-price dashboard queries over reference quote data.
type Service struct {
	Prices domainmarket.Repository
}

func (s *Service) Query(ctx context.Context, filter domainmarket.Filter) ([]domainmarket.Price, error) {
	if s.Prices == nil {
		return nil, ErrNotConfigured
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	return s.Prices.Query(ctx, filter)
}
