package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

const bookingCollection = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"user": string(userID)})
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"hotel": string(hotelID)})
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID domainroom.ID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"room": string(roomID)})
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	doc := newBookingDocument(booking)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type bookingDocument struct {
	ID            string  `bson:"_id"`
	User          string  `bson:"user"`
	Room          string  `bson:"room"`
	Hotel         string  `bson:"hotel"`
	CheckIn       int64   `bson:"checkInDate"`
	CheckOut      int64   `bson:"checkOutDate"`
	Guests        int     `bson:"guests"`
	TotalPrice    float64 `bson:"totalPrice"`
	Status        string  `bson:"status"`
	IsPaid        bool    `bson:"isPaid"`
	PaymentMethod string  `bson:"paymentMethod"`
	CreatedAt     int64   `bson:"created_at"`
	UpdatedAt     int64   `bson:"updated_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		User:          string(b.User),
		Room:          string(b.Room),
		Hotel:         string(b.Hotel),
		CheckIn:       b.Range.CheckIn.UnixMilli(),
		CheckOut:      b.Range.CheckOut.UnixMilli(),
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		IsPaid:        b.IsPaid,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:    domainbooking.ID(d.ID),
		User:  domainuser.ID(d.User),
		Room:  domainroom.ID(d.Room),
		Hotel: domainhotel.ID(d.Hotel),
		Range: domainbooking.DateRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		Guests:        d.Guests,
		TotalPrice:    d.TotalPrice,
		Status:        domainbooking.Status(d.Status),
		IsPaid:        d.IsPaid,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
