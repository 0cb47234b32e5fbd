package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ImageKind string

const (
	ImageAvatar ImageKind = "avatar"
	ImageCover  ImageKind = "cover"
)

// Upload is one file received with a request.
type Upload struct {
	Name   string
	Reader io.Reader
}

type DishInput struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	Cuisine         string             `json:"cuisine"`
	PreparationTime int                `json:"preparation_time"`
	Servings        int                `json:"servings"`
	Price           int64              `json:"price"`
	Dietary         domain.DietaryInfo `json:"dietary"`
	Tags            []string           `json:"tags"`
	IsAvailable     *bool              `json:"is_available"`
}

func (in DishInput) validate() error {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Dish name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		errs = append(errs, "Category is required")
	}
	if in.Price < 0 {
		errs = append(errs, "Price must not be negative")
	}
	if len(errs) > 0 {
		return apperr.Validation(errs...)
	}
	return nil
}

type ChefService struct {
	store    Store
	uow      UnitOfWork
	profiles profiles
	uploader Uploader
	now      func() time.Time
}

func NewChefService(store Store, uow UnitOfWork, uploader Uploader) *ChefService {
	return &ChefService{
		store:    store,
		uow:      uow,
		profiles: profiles{accounts: store},
		uploader: uploader,
		now:      time.Now,
	}
}

func (s *ChefService) Profile(ctx context.Context, p domain.Principal) (*domain.ChefProfile, error) {
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.store.GetChef(ctx, chefID)
}

func (s *ChefService) UpdateProfile(ctx context.Context, p domain.Principal, patch domain.ChefPatch) (*domain.ChefProfile, error) {
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}
	// moderation and media fields have their own operations
	patch.Avatar, patch.CoverImage = nil, nil
	patch.IsAvailable, patch.IsApproved, patch.AccountStatus = nil, nil, nil

	if patch.PricePerHour != nil && *patch.PricePerHour < 0 {
		return nil, apperr.BadRequest("Price per hour must not be negative")
	}
	if patch.MinimumBookingHours != nil && *patch.MinimumBookingHours < 0 {
		return nil, apperr.BadRequest("Minimum booking hours must not be negative")
	}
	if len(patch.Fields()) == 0 {
		return nil, apperr.BadRequest("No fields to update")
	}
	if err := s.store.UpdateChef(ctx, chefID, patch); err != nil {
		return nil, err
	}
	return s.store.GetChef(ctx, chefID)
}

func (s *ChefService) UpdateImage(ctx context.Context, p domain.Principal, kind ImageKind, name string, r io.Reader) (*domain.ChefProfile, error) {
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Upload(ctx, "chefs", name, r)
	if err != nil {
		return nil, apperr.Internal("Failed to upload image", err)
	}

	var patch domain.ChefPatch
	switch kind {
	case ImageAvatar:
		patch.Avatar = &url
	case ImageCover:
		patch.CoverImage = &url
	default:
		return nil, apperr.BadRequest("Unknown image kind: %s", kind)
	}
	if err := s.store.UpdateChef(ctx, chefID, patch); err != nil {
		return nil, err
	}
	return s.store.GetChef(ctx, chefID)
}

func (s *ChefService) ToggleAvailability(ctx context.Context, p domain.Principal) (*domain.ChefProfile, error) {
	chef, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	available := !chef.IsAvailable
	if err := s.store.UpdateChef(ctx, chef.ID, domain.ChefPatch{IsAvailable: &available}); err != nil {
		return nil, err
	}
	chef.IsAvailable = available
	return chef, nil
}

// Stats builds the chef dashboard from independent counts.
func (s *ChefService) Stats(ctx context.Context, p domain.Principal) (*domain.ChefStats, error) {
	chef, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	stats := &domain.ChefStats{
		TotalBookings:     chef.TotalBookings,
		CompletedBookings: chef.CompletedBookings,
		AverageRating:     chef.AverageRating,
		TotalReviews:      chef.TotalReviews,
		IsAvailable:       chef.IsAvailable,
		AccountStatus:     chef.AccountStatus,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalDishes, err = s.store.CountDishes(gctx, chef.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingBookings, err = s.store.CountBookings(gctx, domain.BookingFilter{
			ChefID:   chef.ID,
			Statuses: []domain.BookingStatus{domain.BookingPending},
		})
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveBookings, err = s.store.CountBookings(gctx, domain.BookingFilter{
			ChefID:   chef.ID,
			Statuses: []domain.BookingStatus{domain.BookingConfirmed, domain.BookingInProgress},
		})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalEarnings, err = s.store.SumChefEarnings(gctx, chef.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// AddDish stores a dish and links it to the chef in one unit.
func (s *ChefService) AddDish(ctx context.Context, p domain.Principal, in DishInput, images []Upload) (*domain.Dish, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}
	urls, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dish := &domain.Dish{
		ID:              uuid.NewString(),
		ChefID:          chefID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Category:        in.Category,
		Cuisine:         in.Cuisine,
		Images:          urls,
		PreparationTime: in.PreparationTime,
		Servings:        in.Servings,
		Price:           in.Price,
		Dietary:         in.Dietary,
		Tags:            nonNil(in.Tags),
		IsAvailable:     in.IsAvailable == nil || *in.IsAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.store.CreateDish(ctx, dish); err != nil {
			return err
		}
		return s.store.AddChefDish(ctx, chefID, dish.ID)
	})
	if err != nil {
		return nil, err
	}
	return dish, nil
}

func (s *ChefService) UpdateDish(ctx context.Context, p domain.Principal, dishID string, patch domain.DishPatch, images []Upload) (*domain.Dish, error) {
	dish, err := s.ownDish(ctx, p, dishID, "You can only update your own dishes")
	if err != nil {
		return nil, err
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, apperr.BadRequest("Price must not be negative")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.BadRequest("Dish name cannot be empty")
	}

	patch.Images = nil
	if len(images) > 0 {
		urls, err := s.uploadAll(ctx, images)
		if err != nil {
			return nil, err
		}
		patch.Images = &urls
	}
	if len(patch.Fields()) == 0 {
		return nil, apperr.BadRequest("No fields to update")
	}
	if err := s.store.UpdateDish(ctx, dish.ID, patch); err != nil {
		return nil, err
	}
	return s.store.GetDish(ctx, dish.ID)
}

// DeleteDish removes a dish and unlinks it from the chef in one unit.
func (s *ChefService) DeleteDish(ctx context.Context, p domain.Principal, dishID string) error {
	dish, err := s.ownDish(ctx, p, dishID, "You can only delete your own dishes")
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteDish(ctx, dish.ID); err != nil {
			return err
		}
		return s.store.RemoveChefDish(ctx, dish.ChefID, dish.ID)
	})
}

func (s *ChefService) Dishes(ctx context.Context, p domain.Principal, page domain.Page) (domain.Paged[domain.Dish], error) {
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return domain.Paged[domain.Dish]{}, err
	}
	items, total, err := s.store.ListDishes(ctx, domain.DishFilter{ChefID: chefID, Page: page})
	if err != nil {
		return domain.Paged[domain.Dish]{}, err
	}
	return paged(items, total, page), nil
}

func (s *ChefService) ownDish(ctx context.Context, p domain.Principal, dishID, forbidden string) (*domain.Dish, error) {
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}
	dish, err := s.store.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if dish.ChefID != chefID {
		return nil, apperr.Forbidden("%s", forbidden)
	}
	return dish, nil
}

func (s *ChefService) uploadAll(ctx context.Context, images []Upload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.uploader.Upload(ctx, "dishes", img.Name, img.Reader)
		if err != nil {
			return nil, apperr.Internal("Failed to upload image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
