package service

import (
	"context"
	"io"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
)

type UserService struct {
	store    Store
	profiles profiles
	uploader Uploader
}

func NewUserService(store Store, uploader Uploader) *UserService {
	return &UserService{store: store, profiles: profiles{accounts: store}, uploader: uploader}
}

func (s *UserService) Profile(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.store.GetUserProfile(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, p domain.Principal, patch domain.UserProfilePatch) (*domain.UserProfile, error) {
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return nil, err
	}
	patch.Avatar = nil
	if patch.FullName != nil && *patch.FullName == "" {
		return nil, apperr.BadRequest("Full name cannot be empty")
	}
	if len(patch.Fields()) == 0 {
		return nil, apperr.BadRequest("No fields to update")
	}
	if err := s.store.UpdateUserProfile(ctx, userID, patch); err != nil {
		return nil, err
	}
	return s.store.GetUserProfile(ctx, userID)
}

func (s *UserService) UpdateAvatar(ctx context.Context, p domain.Principal, name string, r io.Reader) (*domain.UserProfile, error) {
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Upload(ctx, "avatars", name, r)
	if err != nil {
		return nil, apperr.Internal("Failed to upload avatar", err)
	}
	if err := s.store.UpdateUserProfile(ctx, userID, domain.UserProfilePatch{Avatar: &url}); err != nil {
		return nil, err
	}
	return s.store.GetUserProfile(ctx, userID)
}

func (s *UserService) AddFavorite(ctx context.Context, p domain.Principal, chefID string) error {
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return err
	}
	if _, err := s.store.GetChef(ctx, chefID); err != nil {
		return err
	}
	return s.store.AddFavoriteChef(ctx, userID, chefID)
}

func (s *UserService) RemoveFavorite(ctx context.Context, p domain.Principal, chefID string) error {
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return err
	}
	return s.store.RemoveFavoriteChef(ctx, userID, chefID)
}

func (s *UserService) Favorites(ctx context.Context, p domain.Principal) ([]domain.ChefSummary, error) {
	user, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	chefs, err := s.store.GetChefsByIDs(ctx, user.FavoriteChefs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChefSummary, 0, len(chefs))
	for i := range chefs {
		out = append(out, *chefSummary(&chefs[i]))
	}
	return out, nil
}
