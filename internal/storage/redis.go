package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	chefRatingTTL   = 24 * time.Hour
	dailyStatsTTL   = 7 * 24 * time.Hour
	chefLeaderboard = "analytics:chefs:rating"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) ReviewMarkerKey(bookingID string) string {
	return "review:booking:" + bookingID
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	res, err := c.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *RedisCache) SetMarker(ctx context.Context, key string) error {
	return c.Client.Set(ctx, key, "1", c.TTL).Err()
}

func chefRatingKey(chefID string) string {
	return "chef:" + chefID + ":rating"
}

// CacheChefRating stores the chef's rating hash and ranks the chef on the
// rating leaderboard.
func (c *RedisCache) CacheChefRating(ctx context.Context, chefID string, average float64, total int) error {
	key := chefRatingKey(chefID)
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"average_rating": average,
			"total_reviews":  total,
			"last_updated":   time.Now().Unix(),
		})
		pipe.Expire(ctx, key, chefRatingTTL)
		pipe.ZAdd(ctx, chefLeaderboard, redis.Z{Score: average, Member: chefID})
		return nil
	})
	return err
}

// ChefRating reads the cached rating hash. ok is false on a cache miss.
func (c *RedisCache) ChefRating(ctx context.Context, chefID string) (average float64, total int, ok bool, err error) {
	stats, err := c.Client.HGetAll(ctx, chefRatingKey(chefID)).Result()
	if err != nil || len(stats) == 0 {
		return 0, 0, false, err
	}
	average, _ = strconv.ParseFloat(stats["average_rating"], 64)
	total, _ = strconv.Atoi(stats["total_reviews"])
	return average, total, true, nil
}

func dailyDishesKey(day time.Time) string {
	return "analytics:daily:" + day.UTC().Format("2006-01-02") + ":dishes"
}

// RecordDishOrders adds each line item's quantity to the day's dish ranking.
func (c *RedisCache) RecordDishOrders(ctx context.Context, day time.Time, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	key := dailyDishesKey(day)
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			pipe.ZIncrBy(ctx, key, float64(item.Quantity), item.DishID)
		}
		pipe.Expire(ctx, key, dailyStatsTTL)
		return nil
	})
	return err
}

func (c *RedisCache) TopDishes(ctx context.Context, day time.Time, limit int) ([]domain.Ranked, error) {
	return c.top(ctx, dailyDishesKey(day), limit)
}

func (c *RedisCache) TopChefs(ctx context.Context, limit int) ([]domain.Ranked, error) {
	return c.top(ctx, chefLeaderboard, limit)
}

func (c *RedisCache) top(ctx context.Context, key string, limit int) ([]domain.Ranked, error) {
	result, err := c.Client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	ranked := make([]domain.Ranked, 0, len(result))
	for _, member := range result {
		id, _ := member.Member.(string)
		ranked = append(ranked, domain.Ranked{ID: id, Score: member.Score})
	}
	return ranked, nil
}
