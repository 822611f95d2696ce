package dto

import (
	"time"

	domainmarket "kisansetu/internal/domain/market"
)

type MarketPrice struct {
	Commodity   string    `json:"commodity"`
	Variety     string    `json:"variety,omitempty"`
	Market      string    `json:"market"`
	District    string    `json:"district"`
	State       string    `json:"state"`
	MinPrice    float64   `json:"min_price"`
	MaxPrice    float64   `json:"max_price"`
	ModalPrice  float64   `json:"modal_price"`
	ArrivalDate time.Time `json:"arrival_date"`
}

func NewMarketPrice(p domainmarket.Price) MarketPrice {
	return MarketPrice{
		Commodity:   p.Commodity,
		Variety:     p.Variety,
		Market:      p.Market,
		District:    p.District,
		State:       p.State,
		MinPrice:    p.MinPrice,
		MaxPrice:    p.MaxPrice,
		ModalPrice:  p.ModalPrice,
		ArrivalDate: p.ArrivalDate,
	}
}
