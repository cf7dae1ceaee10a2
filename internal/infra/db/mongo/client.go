package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	DB *mongo.Database
}

func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the application relies on. The
// unique index on reviews.booking is the actual race closer for the
// one-review-per-booking invariant.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	reviews := c.DB.Collection(reviewCollection)
	_, err := reviews.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    map[string]int{"booking": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: map[string]int{"room": 1}},
		{Keys: map[string]int{"hotel": 1}},
	})
	if err != nil {
		return err
	}

	bookings := c.DB.Collection(bookingCollection)
	_, err = bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: map[string]int{"user": 1}},
		{Keys: map[string]int{"hotel": 1}},
		{Keys: map[string]int{"room": 1}},
	})
	if err != nil {
		return err
	}

	hotels := c.DB.Collection(hotelCollection)
	_, err = hotels.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: map[string]int{"owner": 1}})
	if err != nil {
		return err
	}

	rooms := c.DB.Collection(roomCollection)
	_, err = rooms.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: map[string]int{"hotel": 1}})
	return err
}
