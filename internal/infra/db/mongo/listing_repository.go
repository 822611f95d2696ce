package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "kisansetu/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	listing := doc.toListing()
	return &listing, nil
}

func (r *ListingRepository) ByFarmer(ctx context.Context, farmerID string) ([]domainlistings.Listing, error) {
	return r.find(ctx, bson.M{"farmer_id": farmerID})
}

func (r *ListingRepository) All(ctx context.Context) ([]domainlistings.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []domainlistings.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		listings = append(listings, doc.toListing())
	}
	return listings, cursor.Err()
}

type listingDocument struct {
	ID            string  `bson:"_id"`
	FarmerID      string  `bson:"farmer_id"`
	Commodity     string  `bson:"commodity"`
	Variety       string  `bson:"variety,omitempty"`
	Quantity      float64 `bson:"quantity"`
	Unit          string  `bson:"unit"`
	ExpectedPrice float64 `bson:"expected_price"`
	Description   string  `bson:"description,omitempty"`
	Location      string  `bson:"location"`
	CreatedAt     int64   `bson:"created_at"`
	UpdatedAt     int64   `bson:"updated_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:            string(l.ID),
		FarmerID:      l.FarmerID,
		Commodity:     l.Commodity,
		Variety:       l.Variety,
		Quantity:      l.Quantity,
		Unit:          string(l.Unit),
		ExpectedPrice: l.ExpectedPrice,
		Description:   l.Description,
		Location:      l.Location,
		CreatedAt:     l.CreatedAt.UnixMilli(),
		UpdatedAt:     l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toListing() domainlistings.Listing {
	return domainlistings.Listing{
		ID:            domainlistings.ListingID(d.ID),
		FarmerID:      d.FarmerID,
		Commodity:     d.Commodity,
		Variety:       d.Variety,
		Quantity:      d.Quantity,
		Unit:          domainlistings.Unit(d.Unit),
		ExpectedPrice: d.ExpectedPrice,
		Description:   d.Description,
		Location:      d.Location,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
