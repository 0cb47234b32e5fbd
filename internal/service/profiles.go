package service

import (
	"context"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
)

// profiles resolves the profile id behind an authenticated principal.
type profiles struct {
	accounts AccountRepository
}

func (r profiles) customer(ctx context.Context, p domain.Principal) (string, error) {
	return r.resolve(ctx, p, domain.RoleCustomer, "User profile not found")
}

func (r profiles) chef(ctx context.Context, p domain.Principal) (string, error) {
	return r.resolve(ctx, p, domain.RoleChef, "Chef profile not found")
}

func (r profiles) resolve(ctx context.Context, p domain.Principal, role domain.Role, missing string) (string, error) {
	if p.Role != role {
		return "", apperr.Forbidden("This action requires a %s account", role)
	}
	account, err := r.accounts.GetAccount(ctx, p.AccountID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", apperr.Unauthorized("Unauthorized request")
		}
		return "", err
	}
	id := account.ProfileID()
	if id == "" {
		return "", apperr.NotFound("%s", missing)
	}
	return id, nil
}

// owner returns the actor the principal acts as for a booking, or false
// when the principal is not a party to it.
func (r profiles) owner(ctx context.Context, p domain.Principal, b *domain.Booking) (domain.Actor, bool, error) {
	switch p.Role {
	case domain.RoleAdmin:
		return domain.ActorAdmin, true, nil
	case domain.RoleCustomer:
		id, err := r.customer(ctx, p)
		if err != nil {
			return "", false, err
		}
		return domain.ActorUser, id == b.UserID, nil
	case domain.RoleChef:
		id, err := r.chef(ctx, p)
		if err != nil {
			return "", false, err
		}
		return domain.ActorChef, id == b.ChefID, nil
	}
	return "", false, nil
}

// parseStatuses turns an optional status query value into a filter.
func parseStatuses(status string) ([]domain.BookingStatus, error) {
	if status == "" {
		return nil, nil
	}
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return nil, apperr.BadRequest("Invalid booking status: %s", status)
	}
	return []domain.BookingStatus{s}, nil
}

func paged[T any](items []T, total int, page domain.Page) domain.Paged[T] {
	if items == nil {
		items = []T{}
	}
	return domain.Paged[T]{Items: items, Pagination: page.Of(total)}
}
