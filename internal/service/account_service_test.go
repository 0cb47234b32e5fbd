package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aashikantkumar/cheifidea/config"
	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/service"
	"github.com/aashikantkumar/cheifidea/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(store *storage.MemoryStore) (*service.AccountService, *auth.Issuer) {
	issuer := auth.NewIssuer(config.AuthConfig{
		AccessTokenSecret:  "access",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenSecret: "refresh",
		RefreshTokenExpiry: time.Hour,
	})
	return service.NewAccountService(store, store.Unit(), issuer), issuer
}

func TestAccountService_RegisterCustomer(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, issuer := newAccountService(store)
	ctx := context.Background()

	session, err := svc.RegisterCustomer(ctx, service.RegisterCustomerInput{
		Credentials: service.Credentials{Email: " Asha@Example.com ", Password: "secret1"},
		FullName:    "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", session.Account.Email)
	assert.Equal(t, domain.RoleCustomer, session.Account.Role)
	assert.NotEmpty(t, session.AccessToken)

	profile, ok := session.Profile.(*domain.UserProfile)
	require.True(t, ok)
	assert.Equal(t, session.Account.UserProfileID, profile.ID)
	assert.Equal(t, session.Account.ID, profile.AccountID)

	p, err := issuer.ParseAccess(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{AccountID: session.Account.ID, Role: domain.RoleCustomer}, p)

	_, err = svc.RegisterCustomer(ctx, service.RegisterCustomerInput{
		Credentials: service.Credentials{Email: "asha@example.com", Password: "secret2"},
		FullName:    "Asha Again",
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAccountService_RegisterValidation(t *testing.T) {
	svc, _ := newAccountService(storage.NewMemoryStore())

	_, err := svc.RegisterChef(context.Background(), service.RegisterChefInput{
		Credentials: service.Credentials{Email: "not-an-email", Password: "123"},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Len(t, apperr.Details(err), 4)
}

func TestAccountService_RegisterChefStartsPending(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newAccountService(store)

	session, err := svc.RegisterChef(context.Background(), service.RegisterChefInput{
		Credentials:  service.Credentials{Email: "ravi@example.com", Password: "secret1"},
		FullName:     "Ravi",
		Phone:        "+91 98000 00000",
		PricePerHour: 500,
	})
	require.NoError(t, err)

	chef, ok := session.Profile.(*domain.ChefProfile)
	require.True(t, ok)
	assert.Equal(t, domain.ChefStatusPending, chef.AccountStatus)
	assert.False(t, chef.IsApproved)
	assert.Equal(t, session.Account.ChefProfileID, chef.ID)
}

// profileFailingStore refuses to store user profiles.
type profileFailingStore struct {
	*storage.MemoryStore
	err error
}

func (s profileFailingStore) CreateUserProfile(context.Context, *domain.UserProfile) error {
	return s.err
}

func TestAccountService_RegisterRemovesOrphanedAccount(t *testing.T) {
	tests := []struct {
		name         string
		profileErr   error
		expectedKind apperr.Kind
	}{
		{name: "storage_error", profileErr: errors.New("disk full"), expectedKind: apperr.KindInternal},
		{name: "profile_conflict", profileErr: apperr.Conflict("duplicate key"), expectedKind: apperr.KindConflict},
	}

	for _, testCase := range tests {
		for _, noTransactions := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s_noTransactions_%v", testCase.name, noTransactions), func(t *testing.T) {
				store := storage.NewMemoryStore()
				store.NoTransactions = noTransactions
				failing := profileFailingStore{MemoryStore: store, err: testCase.profileErr}
				issuer := auth.NewIssuer(config.AuthConfig{AccessTokenSecret: "a", RefreshTokenSecret: "r", AccessTokenExpiry: time.Minute, RefreshTokenExpiry: time.Hour})
				svc := service.NewAccountService(failing, store.Unit(), issuer)

				_, err := svc.RegisterCustomer(context.Background(), service.RegisterCustomerInput{
					Credentials: service.Credentials{Email: "asha@example.com", Password: "secret1"},
					FullName:    "Asha",
				})
				require.Error(t, err)
				assert.Equal(t, testCase.expectedKind, apperr.KindOf(err))

				_, err = store.GetAccountByEmail(context.Background(), "asha@example.com")
				assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
			})
		}
	}
}

func TestAccountService_Login(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newAccountService(store)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, service.RegisterCustomerInput{
		Credentials: service.Credentials{Email: "asha@example.com", Password: "secret1"},
		FullName:    "Asha",
	})
	require.NoError(t, err)

	tests := []struct {
		name         string
		role         domain.Role
		email        string
		password     string
		expectedKind apperr.Kind
	}{
		{name: "success", role: domain.RoleCustomer, email: "ASHA@example.com", password: "secret1"},
		{name: "wrong_password", role: domain.RoleCustomer, email: "asha@example.com", password: "secret2", expectedKind: apperr.KindUnauthorized},
		{name: "wrong_role", role: domain.RoleChef, email: "asha@example.com", password: "secret1", expectedKind: apperr.KindUnauthorized},
		{name: "unknown_email", role: domain.RoleCustomer, email: "who@example.com", password: "secret1", expectedKind: apperr.KindUnauthorized},
		{name: "missing_password", role: domain.RoleCustomer, email: "asha@example.com", expectedKind: apperr.KindBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			session, err := svc.Login(ctx, testCase.role, testCase.email, testCase.password)
			if testCase.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, testCase.expectedKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.RefreshToken)
			assert.IsType(t, &domain.UserProfile{}, session.Profile)
		})
	}
}

func TestAccountService_RefreshRotation(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newAccountService(store)
	ctx := context.Background()

	session, err := svc.RegisterCustomer(ctx, service.RegisterCustomerInput{
		Credentials: service.Credentials{Email: "asha@example.com", Password: "secret1"},
		FullName:    "Asha",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "Refresh token is expired or used", apperr.Message(err))

	_, err = svc.Refresh(ctx, "garbage")
	assert.Equal(t, "Invalid refresh token", apperr.Message(err))

	p := domain.Principal{AccountID: session.Account.ID, Role: domain.RoleCustomer}
	require.NoError(t, svc.Logout(ctx, p))
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAccountService_ChangePassword(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newAccountService(store)
	ctx := context.Background()

	session, err := svc.RegisterCustomer(ctx, service.RegisterCustomerInput{
		Credentials: service.Credentials{Email: "asha@example.com", Password: "secret1"},
		FullName:    "Asha",
	})
	require.NoError(t, err)
	p := domain.Principal{AccountID: session.Account.ID, Role: domain.RoleCustomer}

	err = svc.ChangePassword(ctx, p, "wrong", "secret2")
	assert.Equal(t, "Invalid old password", apperr.Message(err))

	require.NoError(t, svc.ChangePassword(ctx, p, "secret1", "secret2"))

	_, err = svc.Login(ctx, domain.RoleCustomer, "asha@example.com", "secret1")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = svc.Login(ctx, domain.RoleCustomer, "asha@example.com", "secret2")
	assert.NoError(t, err)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAccountService_CreateAdmin(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newAccountService(store)

	account, err := svc.CreateAdmin(context.Background(), service.Credentials{Email: "root@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.Empty(t, account.ProfileID())

	session, err := svc.Login(context.Background(), domain.RoleAdmin, "root@example.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, session.Profile)
}
