package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "quickstay/internal/domain/user"
)

const userCollection = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(userCollection)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	doc := newUserDocument(user)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id domainuser.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainuser.ErrNotFound
	}
	return nil
}

type userDocument struct {
	ID                   string   `bson:"_id"`
	Email                string   `bson:"email"`
	Username             string   `bson:"username"`
	Image                string   `bson:"image"`
	Role                 string   `bson:"role"`
	RecentSearchedCities []string `bson:"recentSearchedCities"`
	CreatedAt            int64    `bson:"created_at"`
	UpdatedAt            int64    `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:                   string(u.ID),
		Email:                u.Email,
		Username:             u.Username,
		Image:                u.Image,
		Role:                 string(u.Role),
		RecentSearchedCities: append([]string(nil), u.RecentSearchedCities...),
		CreatedAt:            u.CreatedAt.UnixMilli(),
		UpdatedAt:            u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:                   domainuser.ID(d.ID),
		Email:                d.Email,
		Username:             d.Username,
		Image:                d.Image,
		Role:                 domainuser.Role(d.Role),
		RecentSearchedCities: append([]string(nil), d.RecentSearchedCities...),
		CreatedAt:            timestampToTime(d.CreatedAt),
		UpdatedAt:            timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
