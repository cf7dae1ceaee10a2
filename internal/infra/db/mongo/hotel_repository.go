package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "quickstay/internal/domain/hotel"
	domainuser "quickstay/internal/domain/user"
)

const hotelCollection = "hotels"

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection(hotelCollection)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HotelRepository) ListAll(ctx context.Context) ([]*domainhotel.Hotel, error) {
	return r.find(ctx, bson.M{})
}

func (r *HotelRepository) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainhotel.Hotel, error) {
	return r.find(ctx, bson.M{"owner": string(owner)})
}

func (r *HotelRepository) Save(ctx context.Context, hotel *domainhotel.Hotel) error {
	doc := newHotelDocument(hotel)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *HotelRepository) find(ctx context.Context, filter bson.M) ([]*domainhotel.Hotel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*domainhotel.Hotel, 0)
	for cursor.Next(ctx) {
		var doc hotelDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type hotelDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Address   string `bson:"address"`
	Contact   string `bson:"contact"`
	City      string `bson:"city"`
	Owner     string `bson:"owner"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newHotelDocument(h *domainhotel.Hotel) hotelDocument {
	return hotelDocument{
		ID:        string(h.ID),
		Name:      h.Name,
		Address:   h.Address,
		Contact:   h.Contact,
		City:      h.City,
		Owner:     string(h.Owner),
		CreatedAt: h.CreatedAt.UnixMilli(),
		UpdatedAt: h.UpdatedAt.UnixMilli(),
	}
}

func (d hotelDocument) toAggregate() *domainhotel.Hotel {
	return &domainhotel.Hotel{
		ID:        domainhotel.ID(d.ID),
		Name:      d.Name,
		Address:   d.Address,
		Contact:   d.Contact,
		City:      d.City,
		Owner:     domainuser.ID(d.Owner),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}
