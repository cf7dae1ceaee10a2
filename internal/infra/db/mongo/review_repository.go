package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

const reviewCollection = "reviews"

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(reviewCollection)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.ID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"booking": string(bookingID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByRoom(ctx context.Context, roomID domainroom.ID, limit, skip int) ([]*domainreview.Review, error) {
	return r.find(ctx, bson.M{"room": string(roomID)}, limit, skip)
}

func (r *ReviewRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID, limit, skip int) ([]*domainreview.Review, error) {
	return r.find(ctx, bson.M{"hotel": string(hotelID)}, limit, skip)
}

func (r *ReviewRepository) StatsByRoom(ctx context.Context, roomID domainroom.ID) (domainreview.Stats, error) {
	return r.stats(ctx, bson.M{"room": string(roomID)})
}

func (r *ReviewRepository) StatsByHotel(ctx context.Context, hotelID domainhotel.ID) (domainreview.Stats, error) {
	return r.stats(ctx, bson.M{"hotel": string(hotelID)})
}

// Save relies on the unique index on booking to close the race between
// the duplicate pre-check and the insert.
func (r *ReviewRepository) Save(ctx context.Context, review *domainreview.Review) error {
	doc := newReviewDocument(review)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreview.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domainreview.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, limit, skip int) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if skip > 0 {
		opts = opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*domainreview.Review, 0)
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

func (r *ReviewRepository) stats(ctx context.Context, match bson.M) (domainreview.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"avgRating": bson.M{"$avg": "$rating"},
			"count":     bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domainreview.Stats{}, err
	}
	defer cursor.Close(ctx)

	var row struct {
		AvgRating float64 `bson:"avgRating"`
		Count     int64   `bson:"count"`
	}
	if !cursor.Next(ctx) {
		return domainreview.Stats{}, cursor.Err()
	}
	if err := cursor.Decode(&row); err != nil {
		return domainreview.Stats{}, err
	}
	return domainreview.Stats{Total: row.Count, AvgRating: row.AvgRating}, nil
}

type reviewDocument struct {
	ID        string  `bson:"_id"`
	User      string  `bson:"user"`
	Room      string  `bson:"room"`
	Hotel     string  `bson:"hotel"`
	Booking   string  `bson:"booking"`
	Rating    float64 `bson:"rating"`
	Comment   string  `bson:"comment"`
	CreatedAt int64   `bson:"created_at"`
	UpdatedAt int64   `bson:"updated_at"`
}

func newReviewDocument(rv *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:        string(rv.ID),
		User:      string(rv.User),
		Room:      string(rv.Room),
		Hotel:     string(rv.Hotel),
		Booking:   string(rv.Booking),
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.UnixMilli(),
		UpdatedAt: rv.UpdatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:        domainreview.ID(d.ID),
		User:      domainuser.ID(d.User),
		Room:      domainroom.ID(d.Room),
		Hotel:     domainhotel.ID(d.Hotel),
		Booking:   domainbooking.ID(d.Booking),
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}
