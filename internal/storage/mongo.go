package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one collection per aggregate, keyed by string ids.
type MongoStore struct {
	client   *mongo.Client
	accounts *mongo.Collection
	users    *mongo.Collection
	chefs    *mongo.Collection
	dishes   *mongo.Collection
	bookings *mongo.Collection
	reviews  *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		accounts: db.Collection("accounts"),
		users:    db.Collection("user_profiles"),
		chefs:    db.Collection("chef_profiles"),
		dishes:   db.Collection("dishes"),
		bookings: db.Collection("bookings"),
		reviews:  db.Collection("reviews"),
	}
}

type mongoTransaction struct {
	session mongo.Session
}

func (t mongoTransaction) Commit(ctx context.Context) error {
	defer t.session.EndSession(ctx)
	return t.session.CommitTransaction(ctx)
}

func (t mongoTransaction) Abort(ctx context.Context) error {
	defer t.session.EndSession(ctx)
	return t.session.AbortTransaction(ctx)
}

// Unit opens a session transaction. The session context it hands to work
// makes every collection call join the transaction.
func (s *MongoStore) Unit() *Unit {
	return &Unit{
		driver: "mongo",
		begin: func(ctx context.Context) (context.Context, transaction, error) {
			session, err := s.client.StartSession()
			if err != nil {
				return ctx, nil, err
			}
			if err := session.StartTransaction(); err != nil {
				session.EndSession(ctx)
				return ctx, nil, err
			}
			return mongo.NewSessionContext(ctx, session), mongoTransaction{session: session}, nil
		},
		unsupported: isMongoTxUnsupported,
	}
}

var mongoUnsupportedMessages = []string{
	"Transaction numbers are only allowed on a replica set member",
	"Transaction numbers are only allowed on a sharded cluster",
	"does not support retryable writes",
}

// isMongoTxUnsupported recognises standalone servers refusing transactions.
func isMongoTxUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransactionsUnsupported) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	msg := err.Error()
	for _, pattern := range mongoUnsupportedMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.accounts, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.reviews, mongo.IndexModel{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.reviews, mongo.IndexModel{Keys: bson.D{{Key: "chef_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{s.bookings, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "booking_date", Value: -1}}}},
		{s.bookings, mongo.IndexModel{Keys: bson.D{{Key: "chef_id", Value: 1}, {Key: "booking_date", Value: -1}}}},
		{s.dishes, mongo.IndexModel{Keys: bson.D{{Key: "chef_id", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return err
		}
	}
	return nil
}

func mongoError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("%s not found", what)
	}
	if mongo.IsDuplicateKeyError(err) {
		return &apperr.Error{Kind: apperr.KindConflict, Message: what + " already exists", Err: err}
	}
	if isMongoTxUnsupported(err) {
		return err
	}
	return apperr.Internal("failed to access "+strings.ToLower(what), err)
}

func (s *MongoStore) findOne(ctx context.Context, coll *mongo.Collection, filter any, out any, what string) error {
	return mongoError(coll.FindOne(ctx, filter).Decode(out), what)
}

// updateOne applies update to the document with id and reports NotFound
// when nothing matched.
func (s *MongoStore) updateOne(ctx context.Context, coll *mongo.Collection, id string, update bson.M, what string) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mongoError(err, what)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

func (s *MongoStore) patch(ctx context.Context, coll *mongo.Collection, id string, fields map[string]any, what string) error {
	set := bson.M(fields)
	set["updated_at"] = time.Now().UTC()
	return s.updateOne(ctx, coll, id, bson.M{"$set": set}, what)
}

func (s *MongoStore) page(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out any, what string) (int, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, mongoError(err, what)
	}
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, mongoError(err, what)
	}
	if err := cur.All(ctx, out); err != nil {
		return 0, mongoError(err, what)
	}
	return int(total), nil
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func exactPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}
