package listings

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired        = errors.New("listings: id is required")
	ErrFarmerRequired    = errors.New("listings: farmer is required")
	ErrCommodityRequired = errors.New("listings: commodity is required")
	ErrLocationRequired  = errors.New("listings: location is required")
	ErrInvalidQuantity   = errors.New("listings: quantity must be positive")
	ErrInvalidPrice      = errors.New("listings: expected price must be positive")
	ErrInvalidUnit       = errors.New("listings: unit must be kg, quintal or ton")
	ErrNotFound          = errors.New("listings: not found")
	ErrNotOwner          = errors.New("listings: not the listing owner")
)

type ListingID string

type Unit string

const (
	UnitKg      Unit = "kg"
	UnitQuintal Unit = "quintal"
	UnitTon     Unit = "ton"
)

// Listing is a produce offer published by a farmer.
type Listing struct {
	ID            ListingID
	FarmerID      string
	Commodity     string
	Variety       string
	Quantity      float64
	Unit          Unit
	ExpectedPrice float64
	Description   string
	Location      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	ByFarmer(ctx context.Context, farmerID string) ([]Listing, error)
	All(ctx context.Context) ([]Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
}

type CreateParams struct {
	ID            ListingID
	FarmerID      string
	Commodity     string
	Variety       string
	Quantity      float64
	Unit          Unit
	ExpectedPrice float64
	Description   string
	Location      string
	Now           time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	farmer := strings.TrimSpace(params.FarmerID)
	if farmer == "" {
		return nil, ErrFarmerRequired
	}
	commodity := strings.TrimSpace(params.Commodity)
	if commodity == "" {
		return nil, ErrCommodityRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if params.ExpectedPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	unit, err := normalizeUnit(params.Unit)
	if err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Listing{
		ID:            ListingID(id),
		FarmerID:      farmer,
		Commodity:     commodity,
		Variety:       strings.TrimSpace(params.Variety),
		Quantity:      params.Quantity,
		Unit:          unit,
		ExpectedPrice: params.ExpectedPrice,
		Description:   strings.TrimSpace(params.Description),
		Location:      location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Commodity     *string
	Variety       *string
	Quantity      *float64
	Unit          *Unit
	ExpectedPrice *float64
	Description   *string
	Location      *string
	Now           time.Time
}

func (l *Listing) Update(params UpdateParams) error {
	if params.Commodity != nil {
		commodity := strings.TrimSpace(*params.Commodity)
		if commodity == "" {
			return ErrCommodityRequired
		}
		l.Commodity = commodity
	}
	if params.Variety != nil {
		l.Variety = strings.TrimSpace(*params.Variety)
	}
	if params.Quantity != nil {
		if *params.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		l.Quantity = *params.Quantity
	}
	if params.Unit != nil {
		unit, err := normalizeUnit(*params.Unit)
		if err != nil {
			return err
		}
		l.Unit = unit
	}
	if params.ExpectedPrice != nil {
		if *params.ExpectedPrice <= 0 {
			return ErrInvalidPrice
		}
		l.ExpectedPrice = *params.ExpectedPrice
	}
	if params.Description != nil {
		l.Description = strings.TrimSpace(*params.Description)
	}
	if params.Location != nil {
		location := strings.TrimSpace(*params.Location)
		if location == "" {
			return ErrLocationRequired
		}
		l.Location = location
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	l.UpdatedAt = now.UTC()
	return nil
}

// OwnedBy reports whether the listing belongs to the given farmer.
func (l *Listing) OwnedBy(userID string) bool {
	return l.FarmerID == strings.TrimSpace(userID)
}

func normalizeUnit(unit Unit) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(string(unit)))) {
	case "":
		return UnitKg, nil
	case UnitKg:
		return UnitKg, nil
	case UnitQuintal:
		return UnitQuintal, nil
	case UnitTon:
		return UnitTon, nil
	default:
		return "", ErrInvalidUnit
	}
}
