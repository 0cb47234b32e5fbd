package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/storage"

	"github.com/stretchr/testify/require"
)

var (
	customer      = domain.Principal{AccountID: "acc-customer", Role: domain.RoleCustomer}
	otherCustomer = domain.Principal{AccountID: "acc-customer-2", Role: domain.RoleCustomer}
	chefPrincipal = domain.Principal{AccountID: "acc-chef", Role: domain.RoleChef}
	otherChef     = domain.Principal{AccountID: "acc-chef-2", Role: domain.RoleChef}
	admin         = domain.Principal{AccountID: "acc-admin", Role: domain.RoleAdmin}
)

// newSeededStore returns a memory store holding two customers, two chefs
// and their dishes. chef-1 charges 500 per hour with no minimum set.
func newSeededStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		{ID: "acc-customer", Email: "asha@example.com", Role: domain.RoleCustomer, UserProfileID: "u-1"},
		{ID: "acc-customer-2", Email: "dev@example.com", Role: domain.RoleCustomer, UserProfileID: "u-2"},
		{ID: "acc-chef", Email: "ravi@example.com", Role: domain.RoleChef, ChefProfileID: "chef-1"},
		{ID: "acc-chef-2", Email: "meera@example.com", Role: domain.RoleChef, ChefProfileID: "chef-2"},
		{ID: "acc-admin", Email: "admin@example.com", Role: domain.RoleAdmin},
	}
	for i := range accounts {
		require.NoError(t, store.CreateAccount(ctx, &accounts[i]))
	}

	for _, u := range []domain.UserProfile{
		{ID: "u-1", AccountID: "acc-customer", FullName: "Asha"},
		{ID: "u-2", AccountID: "acc-customer-2", FullName: "Dev"},
	} {
		require.NoError(t, store.CreateUserProfile(ctx, &u))
	}

	for _, c := range []domain.ChefProfile{
		{ID: "chef-1", AccountID: "acc-chef", FullName: "Ravi", PricePerHour: 500, IsApproved: true,
			IsAvailable: true, AccountStatus: domain.ChefStatusActive, Dishes: []string{"d-1", "d-2", "d-3"}, CreatedAt: created},
		{ID: "chef-2", AccountID: "acc-chef-2", FullName: "Meera", PricePerHour: 800, IsApproved: true,
			IsAvailable: true, AccountStatus: domain.ChefStatusActive, Dishes: []string{"d-9"}, CreatedAt: created},
	} {
		require.NoError(t, store.CreateChef(ctx, &c))
	}

	for _, d := range []domain.Dish{
		{ID: "d-1", ChefID: "chef-1", Name: "Paneer Tikka", Price: 200, IsAvailable: true, CreatedAt: created},
		{ID: "d-2", ChefID: "chef-1", Name: "Dal Makhani", Price: 150, IsAvailable: true, CreatedAt: created},
		{ID: "d-3", ChefID: "chef-1", Name: "Biryani", Price: 300, IsAvailable: false, CreatedAt: created},
		{ID: "d-9", ChefID: "chef-2", Name: "Risotto", Price: 400, IsAvailable: true, CreatedAt: created},
	} {
		require.NoError(t, store.CreateDish(ctx, &d))
	}
	return store
}

func seedBooking(t *testing.T, store *storage.MemoryStore, id, userID string, status domain.BookingStatus) {
	t.Helper()
	require.NoError(t, store.CreateBooking(context.Background(), &domain.Booking{
		ID:            id,
		UserID:        userID,
		ChefID:        "chef-1",
		Dishes:        []domain.LineItem{{DishID: "d-1", Quantity: 1, Price: 200}},
		BookingDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		BookingStatus: status,
		PaymentStatus: domain.PaymentPending,
	}))
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func intPtr(v int) *int { return &v }
