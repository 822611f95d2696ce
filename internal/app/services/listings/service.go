package listings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainlistings "kisansetu/internal/domain/listings"
	domainuser "kisansetu/internal/domain/user"
)

var ErrNotConfigured = errors.New("listings: service dependencies missing")

// Service handles listing CRUD with ownership enforcement.
type Service struct {
	Listings domainlistings.Repository
	Users    domainuser.Repository
	Logger   *slog.Logger
}

type CreateParams struct {
	FarmerID      string
	Commodity     string
	Variety       string
	Quantity      float64
	Unit          string
	ExpectedPrice float64
	Description   string
	Location      string
}

type UpdateParams struct {
	Commodity     *string
	Variety       *string
	Quantity      *float64
	Unit          *string
	ExpectedPrice *float64
	Description   *string
	Location      *string
}

// FarmerProfile is the public view of a listing's owner.
type FarmerProfile struct {
	ID    string
	Name  string
	Email string
}

// ListingView is a listing with the farmer profile attached.
type ListingView struct {
	Listing domainlistings.Listing
	Farmer  FarmerProfile
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainlistings.Listing, error) {
	if s.Listings == nil {
		return nil, ErrNotConfigured
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:            domainlistings.ListingID(uuid.NewString()),
		FarmerID:      params.FarmerID,
		Commodity:     params.Commodity,
		Variety:       params.Variety,
		Quantity:      params.Quantity,
		Unit:          domainlistings.Unit(params.Unit),
		ExpectedPrice: params.ExpectedPrice,
		Description:   params.Description,
		Location:      params.Location,
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("listing created", "listing_id", listing.ID, "farmer_id", listing.FarmerID)
	}
	return listing, nil
}

func (s *Service) ByFarmer(ctx context.Context, farmerID string) ([]domainlistings.Listing, error) {
	if s.Listings == nil {
		return nil, ErrNotConfigured
	}
	return s.Listings.ByFarmer(ctx, farmerID)
}

// All returns every listing, newest first, with farmer profiles attached.
func (s *Service) All(ctx context.Context) ([]ListingView, error) {
	if s.Listings == nil {
		return nil, ErrNotConfigured
	}
	listings, err := s.Listings.All(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ListingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, ListingView{
			Listing: listing,
			Farmer:  s.farmerProfile(ctx, listing.FarmerID),
		})
	}
	return views, nil
}

func (s *Service) ByID(ctx context.Context, id string) (*ListingView, error) {
	if s.Listings == nil {
		return nil, ErrNotConfigured
	}
	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(id))
	if err != nil {
		return nil, err
	}
	return &ListingView{
		Listing: *listing,
		Farmer:  s.farmerProfile(ctx, listing.FarmerID),
	}, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, params UpdateParams) (*domainlistings.Listing, error) {
	if s.Listings == nil {
		return nil, ErrNotConfigured
	}
	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(id))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(userID) {
		return nil, domainlistings.ErrNotOwner
	}
	update := domainlistings.UpdateParams{
		Commodity:     params.Commodity,
		Variety:       params.Variety,
		Quantity:      params.Quantity,
		ExpectedPrice: params.ExpectedPrice,
		Description:   params.Description,
		Location:      params.Location,
		Now:           time.Now(),
	}
	if params.Unit != nil {
		unit := domainlistings.Unit(*params.Unit)
		update.Unit = &unit
	}
	if err := listing.Update(update); err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if s.Listings == nil {
		return ErrNotConfigured
	}
	listing, err := s.Listings.ByID(ctx, domainlistings.ListingID(id))
	if err != nil {
		return err
	}
	if !listing.OwnedBy(userID) {
		return domainlistings.ErrNotOwner
	}
	return s.Listings.Delete(ctx, listing.ID)
}

func (s *Service) farmerProfile(ctx context.Context, farmerID string) FarmerProfile {
	profile := FarmerProfile{ID: farmerID}
	if s.Users == nil {
		return profile
	}
	if u, err := s.Users.ByID(ctx, domainuser.ID(farmerID)); err == nil {
		profile.Name = u.Name
		profile.Email = u.Email
	}
	return profile
}
