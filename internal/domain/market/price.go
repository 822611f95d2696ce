package market

import (
	"context"
	"strings"
	"time"
)

// Price is one mandi quote for a commodity. Quotes are reference data loaded
// at startup; the base price is per quintal.
type Price struct {
	Commodity   string
	Variety     string
	Market      string
	District    string
	State       string
	MinPrice    float64
	MaxPrice    float64
	ModalPrice  float64
	ArrivalDate time.Time
}

// Filter narrows a price query. Zero values match everything.
type Filter struct {
	Commodity string
	State     string
	Limit     int
}

type Repository interface {
	Query(ctx context.Context, filter Filter) ([]Price, error)
	ReplaceAll(ctx context.Context, prices []Price) error
}

// Matches reports whether the quote satisfies the filter. Commodity and
// state comparisons are case-insensitive.
func (p Price) Matches(filter Filter) bool {
	if filter.Commodity != "" && !strings.EqualFold(p.Commodity, filter.Commodity) {
		return false
	}
	if filter.State != "" && !strings.EqualFold(p.State, filter.State) {
		return false
	}
	return true
}
