package service

import (
	"context"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 50
)

type AnalyticsService struct {
	cache  AnalyticsCache
	dishes DishRepository
	chefs  ChefRepository
	now    func() time.Time
}

func NewAnalyticsService(cache AnalyticsCache, dishes DishRepository, chefs ChefRepository) *AnalyticsService {
	return &AnalyticsService{cache: cache, dishes: dishes, chefs: chefs, now: time.Now}
}

// TopDishesToday ranks dishes by quantity ordered in bookings created today.
func (s *AnalyticsService) TopDishesToday(ctx context.Context, limit int) ([]domain.DishAnalytics, error) {
	out := []domain.DishAnalytics{}
	if s.cache == nil {
		return out, nil
	}
	ranked, err := s.cache.TopDishes(ctx, s.now().UTC(), clampTop(limit))
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to read daily dish ranking")
		return out, nil
	}
	if len(ranked) == 0 {
		return out, nil
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	dishes, err := s.dishes.GetDishesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	for _, r := range ranked {
		d, ok := byID[r.ID]
		if !ok {
			continue
		}
		out = append(out, domain.DishAnalytics{DishID: d.ID, DishName: d.Name, ChefID: d.ChefID, Score: r.Score})
	}
	return out, nil
}

// TopChefs ranks chefs by average rating. Without a cached leaderboard it
// falls back to the store's rating order.
func (s *AnalyticsService) TopChefs(ctx context.Context, limit int) ([]domain.ChefAnalytics, error) {
	limit = clampTop(limit)
	var ranked []domain.Ranked
	if s.cache != nil {
		var err error
		ranked, err = s.cache.TopChefs(ctx, limit)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("failed to read chef leaderboard")
		}
	}

	var chefs []domain.ChefProfile
	if len(ranked) == 0 {
		found, _, err := s.chefs.ListChefs(ctx, domain.ChefFilter{Bookable: true, Page: domain.NewPage(1, limit)})
		if err != nil {
			return nil, err
		}
		chefs = found
	} else {
		ids := make([]string, len(ranked))
		for i, r := range ranked {
			ids[i] = r.ID
		}
		found, err := s.chefs.GetChefsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]domain.ChefProfile, len(found))
		for _, c := range found {
			byID[c.ID] = c
		}
		for _, r := range ranked {
			if c, ok := byID[r.ID]; ok {
				chefs = append(chefs, c)
			}
		}
	}

	out := make([]domain.ChefAnalytics, 0, len(chefs))
	for _, c := range chefs {
		out = append(out, domain.ChefAnalytics{
			ChefID:        c.ID,
			FullName:      c.FullName,
			AverageRating: c.AverageRating,
			TotalReviews:  c.TotalReviews,
		})
	}
	return out, nil
}

func clampTop(limit int) int {
	switch {
	case limit <= 0:
		return defaultTopLimit
	case limit > maxTopLimit:
		return maxTopLimit
	}
	return limit
}
