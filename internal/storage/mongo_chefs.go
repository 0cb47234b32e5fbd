package storage

import (
	"context"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateChef(ctx context.Context, c *domain.ChefProfile) error {
	doc := *c
	doc.Specialization = nonNil(doc.Specialization)
	doc.Dishes = nonNil(doc.Dishes)
	doc.ServiceLocations = nonNilAreas(doc.ServiceLocations)
	_, err := s.chefs.InsertOne(ctx, doc)
	return mongoError(err, "Chef")
}

func (s *MongoStore) GetChef(ctx context.Context, id string) (*domain.ChefProfile, error) {
	var c domain.ChefProfile
	if err := s.findOne(ctx, s.chefs, bson.M{"_id": id}, &c, "Chef"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) GetChefsByIDs(ctx context.Context, ids []string) ([]domain.ChefProfile, error) {
	chefs := []domain.ChefProfile{}
	if len(ids) == 0 {
		return chefs, nil
	}
	cur, err := s.chefs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoError(err, "Chef")
	}
	if err := cur.All(ctx, &chefs); err != nil {
		return nil, mongoError(err, "Chef")
	}
	return chefs, nil
}

func (s *MongoStore) UpdateChef(ctx context.Context, id string, patch domain.ChefPatch) error {
	return s.patch(ctx, s.chefs, id, patch.Fields(), "Chef")
}

func (s *MongoStore) IncrementChefCounters(ctx context.Context, id string, delta domain.ChefCounters) error {
	inc := delta.Fields()
	if len(inc) == 0 {
		return nil
	}
	return s.updateOne(ctx, s.chefs, id, bson.M{
		"$inc": bson.M(inc),
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}, "Chef")
}

func (s *MongoStore) SetChefRating(ctx context.Context, id string, average float64, total int) error {
	return s.updateOne(ctx, s.chefs, id, bson.M{"$set": bson.M{
		"average_rating": average,
		"total_reviews":  total,
		"updated_at":     time.Now().UTC(),
	}}, "Chef")
}

func (s *MongoStore) AddChefDish(ctx context.Context, chefID, dishID string) error {
	return s.updateOne(ctx, s.chefs, chefID, bson.M{
		"$addToSet": bson.M{"dishes": dishID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}, "Chef")
}

func (s *MongoStore) RemoveChefDish(ctx context.Context, chefID, dishID string) error {
	return s.updateOne(ctx, s.chefs, chefID, bson.M{
		"$pull": bson.M{"dishes": dishID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}, "Chef")
}

func (s *MongoStore) ListChefs(ctx context.Context, f domain.ChefFilter) ([]domain.ChefProfile, int, error) {
	filter := bson.M{}
	if f.Bookable {
		filter["is_approved"] = true
		filter["account_status"] = domain.ChefStatusActive
	}
	if f.Status != "" {
		filter["account_status"] = f.Status
	}
	if f.Specialization != "" {
		filter["specialization"] = exactPattern(f.Specialization)
	}
	if f.City != "" {
		filter["service_locations.city"] = exactPattern(f.City)
	}
	if f.Search != "" {
		filter["full_name"] = containsPattern(f.Search)
	}
	if f.MinRating > 0 {
		filter["average_rating"] = bson.M{"$gte": f.MinRating}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "average_rating", Value: -1}, {Key: "total_reviews", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Page.Offset())).
		SetLimit(int64(f.Page.Limit))

	chefs := []domain.ChefProfile{}
	total, err := s.page(ctx, s.chefs, filter, opts, &chefs, "Chef")
	if err != nil {
		return nil, 0, err
	}
	return chefs, total, nil
}

func (s *MongoStore) CreateDish(ctx context.Context, d *domain.Dish) error {
	doc := *d
	doc.Images = nonNil(doc.Images)
	doc.Tags = nonNil(doc.Tags)
	_, err := s.dishes.InsertOne(ctx, doc)
	return mongoError(err, "Dish")
}

func (s *MongoStore) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	var d domain.Dish
	if err := s.findOne(ctx, s.dishes, bson.M{"_id": id}, &d, "Dish"); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MongoStore) GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error) {
	dishes := []domain.Dish{}
	if len(ids) == 0 {
		return dishes, nil
	}
	cur, err := s.dishes.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoError(err, "Dish")
	}
	if err := cur.All(ctx, &dishes); err != nil {
		return nil, mongoError(err, "Dish")
	}
	return dishes, nil
}

func (s *MongoStore) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) error {
	return s.patch(ctx, s.dishes, id, patch.Fields(), "Dish")
}

func (s *MongoStore) DeleteDish(ctx context.Context, id string) error {
	res, err := s.dishes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Dish")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Dish not found")
	}
	return nil
}

// IncrementOrderCounts sends one unordered bulk write of $inc updates.
func (s *MongoStore) IncrementOrderCounts(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(counts))
	for id, qty := range counts {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{
				"$inc": bson.M{"orders_count": qty},
				"$set": bson.M{"updated_at": now},
			}))
	}
	_, err := s.dishes.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return mongoError(err, "Dish")
}

func mongoDishFilter(f domain.DishFilter) bson.M {
	filter := bson.M{}
	if f.ChefID != "" {
		filter["chef_id"] = f.ChefID
	}
	if f.Category != "" {
		filter["category"] = exactPattern(f.Category)
	}
	if f.Cuisine != "" {
		filter["cuisine"] = exactPattern(f.Cuisine)
	}
	if f.Vegetarian != nil {
		filter["dietary.is_vegetarian"] = *f.Vegetarian
	}
	if f.OnlyAvailable {
		filter["is_available"] = true
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	return filter
}

func (s *MongoStore) ListDishes(ctx context.Context, f domain.DishFilter) ([]domain.Dish, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Page.Offset())).
		SetLimit(int64(f.Page.Limit))

	dishes := []domain.Dish{}
	total, err := s.page(ctx, s.dishes, mongoDishFilter(f), opts, &dishes, "Dish")
	if err != nil {
		return nil, 0, err
	}
	return dishes, total, nil
}

func (s *MongoStore) CountDishes(ctx context.Context, chefID string) (int, error) {
	n, err := s.dishes.CountDocuments(ctx, bson.M{"chef_id": chefID})
	if err != nil {
		return 0, mongoError(err, "Dish")
	}
	return int(n), nil
}
