package service

import (
	"context"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
)

// CatalogService serves the public, unauthenticated reads.
type CatalogService struct {
	store Store
}

func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListChefs(ctx context.Context, f domain.ChefFilter) (domain.Paged[domain.ChefProfile], error) {
	f.Bookable = true
	f.Status = ""
	items, total, err := s.store.ListChefs(ctx, f)
	if err != nil {
		return domain.Paged[domain.ChefProfile]{}, err
	}
	return paged(items, total, f.Page), nil
}

// Chef returns an approved, active chef. Others are reported as missing.
func (s *CatalogService) Chef(ctx context.Context, id string) (*domain.ChefProfile, error) {
	chef, err := s.store.GetChef(ctx, id)
	if err != nil {
		return nil, err
	}
	if !chef.IsApproved || chef.AccountStatus != domain.ChefStatusActive {
		return nil, apperr.NotFound("Chef not found")
	}
	return chef, nil
}

func (s *CatalogService) ChefDishes(ctx context.Context, chefID string, page domain.Page) (domain.Paged[domain.Dish], error) {
	if _, err := s.Chef(ctx, chefID); err != nil {
		return domain.Paged[domain.Dish]{}, err
	}
	return s.SearchDishes(ctx, domain.DishFilter{ChefID: chefID, Page: page})
}

func (s *CatalogService) SearchDishes(ctx context.Context, f domain.DishFilter) (domain.Paged[domain.Dish], error) {
	f.OnlyAvailable = true
	items, total, err := s.store.ListDishes(ctx, f)
	if err != nil {
		return domain.Paged[domain.Dish]{}, err
	}
	return paged(items, total, f.Page), nil
}

func (s *CatalogService) Dish(ctx context.Context, id string) (*domain.Dish, error) {
	return s.store.GetDish(ctx, id)
}

func (s *CatalogService) ChefReviews(ctx context.Context, chefID string, page domain.Page) (domain.Paged[domain.Review], error) {
	items, total, err := s.store.ListChefReviews(ctx, chefID, page)
	if err != nil {
		return domain.Paged[domain.Review]{}, err
	}
	return paged(items, total, page), nil
}
