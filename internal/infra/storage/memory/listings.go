package memory

import (
	"context"
	"sort"
	"sync"

	domainlistings "kisansetu/internal/domain/listings"
)

// ListingRepository stores listings in memory. Not suitable for production.
type ListingRepository struct {
	mu       sync.RWMutex
	listings map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{listings: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if listing, ok := r.listings[id]; ok {
		copyListing := *listing
		return &copyListing, nil
	}
	return nil, domainlistings.ErrNotFound
}

func (r *ListingRepository) ByFarmer(ctx context.Context, farmerID string) ([]domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domainlistings.Listing
	for _, listing := range r.listings {
		if listing.FarmerID == farmerID {
			result = append(result, *listing)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *ListingRepository) All(ctx context.Context) ([]domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domainlistings.Listing, 0, len(r.listings))
	for _, listing := range r.listings {
		result = append(result, *listing)
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil {
		return domainlistings.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copyListing := *listing
	r.listings[listing.ID] = &copyListing
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

func sortNewestFirst(listings []domainlistings.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}
