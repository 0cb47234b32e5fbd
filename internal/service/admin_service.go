package service

import (
	"context"

	"github.com/aashikantkumar/cheifidea/internal/domain"
)

type AdminService struct {
	store Store
}

func NewAdminService(store Store) *AdminService {
	return &AdminService{store: store}
}

func (s *AdminService) PendingChefs(ctx context.Context, page domain.Page) (domain.Paged[domain.ChefProfile], error) {
	f := domain.ChefFilter{Status: domain.ChefStatusPending, Page: page}
	items, total, err := s.store.ListChefs(ctx, f)
	if err != nil {
		return domain.Paged[domain.ChefProfile]{}, err
	}
	return paged(items, total, page), nil
}

// ApproveChef makes a chef bookable.
func (s *AdminService) ApproveChef(ctx context.Context, chefID string) (*domain.ChefProfile, error) {
	approved := true
	status := domain.ChefStatusActive
	return s.moderate(ctx, chefID, domain.ChefPatch{IsApproved: &approved, AccountStatus: &status})
}

func (s *AdminService) RejectChef(ctx context.Context, chefID string) (*domain.ChefProfile, error) {
	approved, available := false, false
	status := domain.ChefStatusInactive
	return s.moderate(ctx, chefID, domain.ChefPatch{IsApproved: &approved, IsAvailable: &available, AccountStatus: &status})
}

func (s *AdminService) SuspendChef(ctx context.Context, chefID string) (*domain.ChefProfile, error) {
	available := false
	status := domain.ChefStatusSuspended
	return s.moderate(ctx, chefID, domain.ChefPatch{IsAvailable: &available, AccountStatus: &status})
}

func (s *AdminService) moderate(ctx context.Context, chefID string, patch domain.ChefPatch) (*domain.ChefProfile, error) {
	if err := s.store.UpdateChef(ctx, chefID, patch); err != nil {
		return nil, err
	}
	return s.store.GetChef(ctx, chefID)
}

func (s *AdminService) ListBookings(ctx context.Context, status string, page domain.Page) (domain.Paged[domain.Booking], error) {
	statuses, err := parseStatuses(status)
	if err != nil {
		return domain.Paged[domain.Booking]{}, err
	}
	items, total, err := s.store.ListBookings(ctx, domain.BookingFilter{Statuses: statuses, Page: page})
	if err != nil {
		return domain.Paged[domain.Booking]{}, err
	}
	return paged(items, total, page), nil
}
