package listings

import (
	"context"
	"errors"
	"testing"

	domainlistings "kisansetu/internal/domain/listings"
	domainuser "kisansetu/internal/domain/user"
)

type mockListingRepo struct {
	listings map[domainlistings.ListingID]*domainlistings.Listing
	deleted  []domainlistings.ListingID
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{listings: map[domainlistings.ListingID]*domainlistings.Listing{}}
}

func (m *mockListingRepo) ByID(_ context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	if l, ok := m.listings[id]; ok {
		clone := *l
		return &clone, nil
	}
	return nil, domainlistings.ErrNotFound
}

func (m *mockListingRepo) ByFarmer(_ context.Context, farmerID string) ([]domainlistings.Listing, error) {
	var out []domainlistings.Listing
	for _, l := range m.listings {
		if l.FarmerID == farmerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) All(_ context.Context) ([]domainlistings.Listing, error) {
	var out []domainlistings.Listing
	for _, l := range m.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockListingRepo) Save(_ context.Context, l *domainlistings.Listing) error {
	clone := *l
	m.listings[l.ID] = &clone
	return nil
}

func (m *mockListingRepo) Delete(_ context.Context, id domainlistings.ListingID) error {
	if _, ok := m.listings[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(m.listings, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockUserRepo struct {
	users map[domainuser.ID]*domainuser.User
}

func (m *mockUserRepo) ByID(_ context.Context, id domainuser.ID) (*domainuser.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domainuser.ErrNotFound
}

func (m *mockUserRepo) ByEmail(_ context.Context, _ string) (*domainuser.User, error) {
	return nil, domainuser.ErrNotFound
}

func (m *mockUserRepo) Save(_ context.Context, _ *domainuser.User) error { return nil }

func TestCreateListingDefaultsUnit(t *testing.T) {
	repo := newMockListingRepo()
	svc := &Service{Listings: repo}

	listing, err := svc.Create(context.Background(), CreateParams{
		FarmerID:      "farmer-1",
		Commodity:     "Wheat",
		Quantity:      50,
		ExpectedPrice: 2300,
		Location:      "Indore",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if listing.Unit != domainlistings.UnitKg {
		t.Fatalf("unit = %q, want default kg", listing.Unit)
	}
	if listing.ID == "" {
		t.Fatal("listing id not assigned")
	}
	if _, ok := repo.listings[listing.ID]; !ok {
		t.Fatal("listing not persisted")
	}
}

func TestCreateListingRejectsInvalidQuantity(t *testing.T) {
	repo := newMockListingRepo()
	svc := &Service{Listings: repo}

	_, err := svc.Create(context.Background(), CreateParams{
		FarmerID:      "farmer-1",
		Commodity:     "Wheat",
		Quantity:      0,
		ExpectedPrice: 2300,
		Location:      "Indore",
	})
	if !errors.Is(err, domainlistings.ErrInvalidQuantity) {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
	if len(repo.listings) != 0 {
		t.Fatal("nothing should be persisted on validation failure")
	}
}

func TestUpdateListingEnforcesOwnership(t *testing.T) {
	repo := newMockListingRepo()
	svc := &Service{Listings: repo}
	created, err := svc.Create(context.Background(), CreateParams{
		FarmerID:      "farmer-1",
		Commodity:     "Wheat",
		Quantity:      50,
		ExpectedPrice: 2300,
		Location:      "Indore",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	price := 2500.0
	_, err = svc.Update(context.Background(), string(created.ID), "intruder", UpdateParams{ExpectedPrice: &price})
	if !errors.Is(err, domainlistings.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	updated, err := svc.Update(context.Background(), string(created.ID), "farmer-1", UpdateParams{ExpectedPrice: &price})
	if err != nil {
		t.Fatalf("update as owner: %v", err)
	}
	if updated.ExpectedPrice != 2500 {
		t.Fatalf("expected price = %v, want 2500", updated.ExpectedPrice)
	}
	if updated.Commodity != "Wheat" {
		t.Fatalf("untouched field changed: %q", updated.Commodity)
	}
}

func TestDeleteListing(t *testing.T) {
	repo := newMockListingRepo()
	svc := &Service{Listings: repo}
	created, err := svc.Create(context.Background(), CreateParams{
		FarmerID:      "farmer-1",
		Commodity:     "Onion",
		Quantity:      10,
		Unit:          "quintal",
		ExpectedPrice: 1400,
		Location:      "Nashik",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), string(created.ID), "intruder"); !errors.Is(err, domainlistings.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(context.Background(), string(created.ID), "farmer-1"); err != nil {
		t.Fatalf("delete as owner: %v", err)
	}
	if err := svc.Delete(context.Background(), string(created.ID), "farmer-1"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestAllAttachesFarmerProfiles(t *testing.T) {
	repo := newMockListingRepo()
	users := &mockUserRepo{users: map[domainuser.ID]*domainuser.User{
		"farmer-1": {ID: "farmer-1", Name: "Ravi", Email: "ravi@example.com"},
	}}
	svc := &Service{Listings: repo, Users: users}

	if _, err := svc.Create(context.Background(), CreateParams{
		FarmerID:      "farmer-1",
		Commodity:     "Wheat",
		Quantity:      50,
		ExpectedPrice: 2300,
		Location:      "Indore",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateParams{
		FarmerID:      "ghost",
		Commodity:     "Rice",
		Quantity:      20,
		ExpectedPrice: 3100,
		Location:      "Karnal",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	views, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	byFarmer := map[string]ListingView{}
	for _, v := range views {
		byFarmer[v.Farmer.ID] = v
	}
	if byFarmer["farmer-1"].Farmer.Name != "Ravi" {
		t.Fatalf("known farmer profile not attached: %+v", byFarmer["farmer-1"].Farmer)
	}
	// Unresolvable owners keep the id with an empty profile rather than
	// failing the catalog.
	if ghost := byFarmer["ghost"].Farmer; ghost.Name != "" || ghost.Email != "" {
		t.Fatalf("ghost farmer should stay id-only, got %+v", ghost)
	}
}
