package storage

import (
	"context"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	doc := *b
	doc.DietaryRestrictions = nonNil(doc.DietaryRestrictions)
	_, err := s.bookings.InsertOne(ctx, doc)
	return mongoError(err, "Booking")
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := s.findOne(ctx, s.bookings, bson.M{"_id": id}, &b, "Booking"); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoStore) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error {
	return s.patch(ctx, s.bookings, id, patch.Fields(), "Booking")
}

func mongoBookingFilter(f domain.BookingFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.ChefID != "" {
		filter["chef_id"] = f.ChefID
	}
	if len(f.Statuses) > 0 {
		filter["booking_status"] = bson.M{"$in": f.Statuses}
	}
	return filter
}

func (s *MongoStore) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "booking_date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Page.Offset())).
		SetLimit(int64(f.Page.Limit))

	bookings := []domain.Booking{}
	total, err := s.page(ctx, s.bookings, mongoBookingFilter(f), opts, &bookings, "Booking")
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (s *MongoStore) CountBookings(ctx context.Context, f domain.BookingFilter) (int, error) {
	n, err := s.bookings.CountDocuments(ctx, mongoBookingFilter(f))
	if err != nil {
		return 0, mongoError(err, "Booking")
	}
	return int(n), nil
}

func (s *MongoStore) SumChefEarnings(ctx context.Context, chefID string) (int64, error) {
	cur, err := s.bookings.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "chef_id", Value: chefID},
			{Key: "booking_status", Value: domain.BookingCompleted},
			{Key: "payment_status", Value: domain.PaymentPaid},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$chef_fee"}}},
		}}},
	})
	if err != nil {
		return 0, mongoError(err, "Booking")
	}
	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, mongoError(err, "Booking")
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (s *MongoStore) CreateReview(ctx context.Context, r *domain.Review) error {
	_, err := s.reviews.InsertOne(ctx, r)
	return mongoError(err, "Review")
}

func (s *MongoStore) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	var r domain.Review
	if err := s.findOne(ctx, s.reviews, bson.M{"_id": id}, &r, "Review"); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoStore) GetReviewByBooking(ctx context.Context, bookingID string) (*domain.Review, error) {
	var r domain.Review
	if err := s.findOne(ctx, s.reviews, bson.M{"booking_id": bookingID}, &r, "Review"); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoStore) ListChefReviews(ctx context.Context, chefID string, page domain.Page) ([]domain.Review, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	reviews := []domain.Review{}
	total, err := s.page(ctx, s.reviews, bson.M{"chef_id": chefID}, opts, &reviews, "Review")
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ChefRatingTally sums every rating of the chef server side.
func (s *MongoStore) ChefRatingTally(ctx context.Context, chefID string) (domain.RatingTally, error) {
	cur, err := s.reviews.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "chef_id", Value: chefID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "sum", Value: bson.D{{Key: "$sum", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return domain.RatingTally{}, mongoError(err, "Review")
	}
	var out []struct {
		Sum   int64 `bson:"sum"`
		Count int   `bson:"count"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return domain.RatingTally{}, mongoError(err, "Review")
	}
	if len(out) == 0 {
		return domain.RatingTally{}, nil
	}
	return domain.RatingTally{Sum: out[0].Sum, Count: out[0].Count}, nil
}

func (s *MongoStore) SetReviewResponse(ctx context.Context, id string, resp domain.ChefResponse) error {
	resp.RespondedAt = resp.RespondedAt.UTC()
	if resp.RespondedAt.IsZero() {
		resp.RespondedAt = time.Now().UTC()
	}
	return s.updateOne(ctx, s.reviews, id, bson.M{"$set": bson.M{"chef_response": resp}}, "Review")
}
