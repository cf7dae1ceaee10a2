package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
)

const roomCollection = "rooms"

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection(roomCollection)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainroom.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) ListAvailable(ctx context.Context) ([]*domainroom.Room, error) {
	return r.find(ctx, bson.M{"isAvailable": true})
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainroom.Room, error) {
	return r.find(ctx, bson.M{"hotel": string(hotelID)})
}

func (r *RoomRepository) ListByHotels(ctx context.Context, hotelIDs []domainhotel.ID) ([]*domainroom.Room, error) {
	ids := make([]string, 0, len(hotelIDs))
	for _, id := range hotelIDs {
		ids = append(ids, string(id))
	}
	return r.find(ctx, bson.M{"hotel": bson.M{"$in": ids}})
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	doc := newRoomDocument(room)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *RoomRepository) find(ctx context.Context, filter bson.M) ([]*domainroom.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*domainroom.Room, 0)
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type roomDocument struct {
	ID            string   `bson:"_id"`
	Hotel         string   `bson:"hotel"`
	RoomType      string   `bson:"roomType"`
	PricePerNight float64  `bson:"pricePerNight"`
	Amenities     []string `bson:"amenities"`
	Images        []string `bson:"images"`
	IsAvailable   bool     `bson:"isAvailable"`
	CreatedAt     int64    `bson:"created_at"`
	UpdatedAt     int64    `bson:"updated_at"`
}

func newRoomDocument(room *domainroom.Room) roomDocument {
	return roomDocument{
		ID:            string(room.ID),
		Hotel:         string(room.Hotel),
		RoomType:      string(room.RoomType),
		PricePerNight: room.PricePerNight,
		Amenities:     append([]string(nil), room.Amenities...),
		Images:        append([]string(nil), room.Images...),
		IsAvailable:   room.IsAvailable,
		CreatedAt:     room.CreatedAt.UnixMilli(),
		UpdatedAt:     room.UpdatedAt.UnixMilli(),
	}
}

func (d roomDocument) toAggregate() *domainroom.Room {
	return &domainroom.Room{
		ID:            domainroom.ID(d.ID),
		Hotel:         domainhotel.ID(d.Hotel),
		RoomType:      domainroom.RoomType(d.RoomType),
		PricePerNight: d.PricePerNight,
		Amenities:     append([]string(nil), d.Amenities...),
		Images:        append([]string(nil), d.Images...),
		IsAvailable:   d.IsAvailable,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
