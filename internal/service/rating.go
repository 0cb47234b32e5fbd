package service

import (
	"context"

	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"
)

// RatingAggregator keeps a chef's average_rating and total_reviews in line
// with the reviews stored for that chef.
type RatingAggregator struct {
	reviews ReviewRepository
	chefs   ChefRepository
	cache   RatingCache
}

func NewRatingAggregator(reviews ReviewRepository, chefs ChefRepository, cache RatingCache) *RatingAggregator {
	return &RatingAggregator{reviews: reviews, chefs: chefs, cache: cache}
}

// Recompute rebuilds the chef's rating from every stored review.
func (a *RatingAggregator) Recompute(ctx context.Context, chefID string) (domain.RatingTally, error) {
	tally, err := a.reviews.ChefRatingTally(ctx, chefID)
	if err != nil {
		return domain.RatingTally{}, err
	}
	average := tally.Average()
	if err := a.chefs.SetChefRating(ctx, chefID, average, tally.Count); err != nil {
		return domain.RatingTally{}, err
	}

	if a.cache != nil {
		if err := a.cache.CacheChefRating(ctx, chefID, average, tally.Count); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("chef_id", chefID).Msg("failed to cache chef rating")
		}
	}
	return tally, nil
}

// FoldRatings applies ratings one by one to a tally.
func FoldRatings(start domain.RatingTally, ratings ...int) domain.RatingTally {
	for _, r := range ratings {
		start = start.Add(r)
	}
	return start
}
