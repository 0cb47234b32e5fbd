package storage

import (
	"context"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *MongoStore) CreateAccount(ctx context.Context, a *domain.Account) error {
	doc := *a
	doc.Email = strings.ToLower(doc.Email)
	_, err := s.accounts.InsertOne(ctx, doc)
	return mongoError(err, "Account")
}

func (s *MongoStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	if err := s.findOne(ctx, s.accounts, bson.M{"_id": id}, &a, "Account"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	if err := s.findOne(ctx, s.accounts, bson.M{"email": strings.ToLower(email)}, &a, "Account"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch) error {
	return s.patch(ctx, s.accounts, id, patch.Fields(), "Account")
}

func (s *MongoStore) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.accounts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Account")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Account not found")
	}
	return nil
}

func (s *MongoStore) CreateUserProfile(ctx context.Context, u *domain.UserProfile) error {
	doc := *u
	doc.BookingHistory = nonNil(doc.BookingHistory)
	doc.FavoriteChefs = nonNil(doc.FavoriteChefs)
	_, err := s.users.InsertOne(ctx, doc)
	return mongoError(err, "User profile")
}

func (s *MongoStore) GetUserProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	var u domain.UserProfile
	if err := s.findOne(ctx, s.users, bson.M{"_id": id}, &u, "User profile"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) UpdateUserProfile(ctx context.Context, id string, patch domain.UserProfilePatch) error {
	return s.patch(ctx, s.users, id, patch.Fields(), "User profile")
}

func (s *MongoStore) AppendBookingHistory(ctx context.Context, userID, bookingID string) error {
	return s.updateOne(ctx, s.users, userID, bson.M{
		"$push": bson.M{"booking_history": bookingID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}, "User profile")
}

func (s *MongoStore) AddFavoriteChef(ctx context.Context, userID, chefID string) error {
	return s.updateOne(ctx, s.users, userID, bson.M{
		"$addToSet": bson.M{"favorite_chefs": chefID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}, "User profile")
}

func (s *MongoStore) RemoveFavoriteChef(ctx context.Context, userID, chefID string) error {
	return s.updateOne(ctx, s.users, userID, bson.M{
		"$pull": bson.M{"favorite_chefs": chefID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}, "User profile")
}
