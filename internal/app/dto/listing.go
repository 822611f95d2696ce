package dto

import (
	"time"

	listingsvc "kisansetu/internal/app/services/listings"
	domainlistings "kisansetu/internal/domain/listings"
)

type Listing struct {
	ID            string    `json:"id"`
	FarmerID      string    `json:"farmerId"`
	Commodity     string    `json:"commodity"`
	Variety       string    `json:"variety,omitempty"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	ExpectedPrice float64   `json:"expectedPrice"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewListing(l domainlistings.Listing) Listing {
	return Listing{
		ID:            string(l.ID),
		FarmerID:      l.FarmerID,
		Commodity:     l.Commodity,
		Variety:       l.Variety,
		Quantity:      l.Quantity,
		Unit:          string(l.Unit),
		ExpectedPrice: l.ExpectedPrice,
		Description:   l.Description,
		Location:      l.Location,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

// ListingDetail attaches the farmer's public profile.
type ListingDetail struct {
	Listing
	Farmer Participant `json:"farmer"`
}

func NewListingDetail(view listingsvc.ListingView) ListingDetail {
	return ListingDetail{
		Listing: NewListing(view.Listing),
		Farmer:  Participant{ID: view.Farmer.ID, Name: view.Farmer.Name, Email: view.Farmer.Email},
	}
}
