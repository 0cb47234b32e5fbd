package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"

	"github.com/google/uuid"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) validate(errs []string) []string {
	if _, err := mail.ParseAddress(c.Email); err != nil {
		errs = append(errs, "A valid email is required")
	}
	if len(c.Password) < auth.MinPasswordLength {
		errs = append(errs, "Password must be at least 6 characters")
	}
	return errs
}

type RegisterCustomerInput struct {
	Credentials
	FullName string         `json:"full_name"`
	Phone    string         `json:"phone"`
	Address  domain.Address `json:"address"`
}

type RegisterChefInput struct {
	Credentials
	FullName            string               `json:"full_name"`
	Phone               string               `json:"phone"`
	Bio                 string               `json:"bio"`
	Specialization      []string             `json:"specialization"`
	ExperienceYears     int                  `json:"experience_years"`
	ServiceLocations    []domain.ServiceArea `json:"service_locations"`
	PricePerHour        int64                `json:"price_per_hour"`
	MinimumBookingHours int                  `json:"minimum_booking_hours"`
}

// Session is what a successful register or login hands back.
type Session struct {
	Account *domain.Account `json:"account"`
	Profile any             `json:"profile,omitempty"`
	auth.Tokens
}

type AccountService struct {
	store  Store
	uow    UnitOfWork
	tokens TokenIssuer
	now    func() time.Time
}

func NewAccountService(store Store, uow UnitOfWork, tokens TokenIssuer) *AccountService {
	return &AccountService{store: store, uow: uow, tokens: tokens, now: time.Now}
}

func (s *AccountService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*Session, error) {
	errs := in.validate(nil)
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, "Full name is required")
	}
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	now := s.now().UTC()
	profile := &domain.UserProfile{
		ID:             uuid.NewString(),
		FullName:       strings.TrimSpace(in.FullName),
		Phone:          in.Phone,
		Address:        in.Address,
		BookingHistory: []string{},
		FavoriteChefs:  []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	account, err := s.register(ctx, in.Credentials, domain.RoleCustomer, profile.ID, func(ctx context.Context, accountID string) error {
		profile.AccountID = accountID
		return s.store.CreateUserProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return s.session(ctx, account, profile)
}

func (s *AccountService) RegisterChef(ctx context.Context, in RegisterChefInput) (*Session, error) {
	errs := in.validate(nil)
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, "Full name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		errs = append(errs, "Phone is required")
	}
	if in.PricePerHour < 0 {
		errs = append(errs, "Price per hour must not be negative")
	}
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	now := s.now().UTC()
	profile := &domain.ChefProfile{
		ID:                  uuid.NewString(),
		FullName:            strings.TrimSpace(in.FullName),
		Phone:               in.Phone,
		Bio:                 in.Bio,
		Specialization:      nonNil(in.Specialization),
		ExperienceYears:     in.ExperienceYears,
		ServiceLocations:    nonNil(in.ServiceLocations),
		Dishes:              []string{},
		PricePerHour:        in.PricePerHour,
		MinimumBookingHours: in.MinimumBookingHours,
		IsAvailable:         true,
		AccountStatus:       domain.ChefStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	account, err := s.register(ctx, in.Credentials, domain.RoleChef, profile.ID, func(ctx context.Context, accountID string) error {
		profile.AccountID = accountID
		return s.store.CreateChef(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return s.session(ctx, account, profile)
}

// CreateAdmin provisions an administrator account.
func (s *AccountService) CreateAdmin(ctx context.Context, creds Credentials) (*domain.Account, error) {
	if errs := creds.validate(nil); len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}
	return s.register(ctx, creds, domain.RoleAdmin, "", nil)
}

// register creates the account and its profile in one unit. If the unit
// ran without a transaction and anything after the account insert failed,
// the orphaned account is removed.
func (s *AccountService) register(ctx context.Context, creds Credentials, role domain.Role, profileID string, createProfile func(ctx context.Context, accountID string) error) (*domain.Account, error) {
	email := normalizeEmail(creds.Email)
	if _, err := s.store.GetAccountByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Account with this email already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	now := s.now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch role {
	case domain.RoleCustomer:
		account.UserProfileID = profileID
	case domain.RoleChef:
		account.ChefProfileID = profileID
	}

	var accountErr error
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if accountErr = s.store.CreateAccount(ctx, account); accountErr != nil {
			return accountErr
		}
		if createProfile == nil {
			return nil
		}
		return createProfile(ctx, account.ID)
	})
	if err != nil {
		if accountErr != nil {
			if apperr.Is(accountErr, apperr.KindConflict) {
				return nil, apperr.Conflict("Account with this email already exists")
			}
			return nil, err
		}
		if delErr := s.store.DeleteAccount(ctx, account.ID); delErr != nil && !apperr.Is(delErr, apperr.KindNotFound) {
			logger.FromContext(ctx).Error().Err(delErr).Str("account_id", account.ID).Msg("failed to remove orphaned account")
		}
		return nil, err
	}
	return account, nil
}

// Login authenticates an account of the given role.
func (s *AccountService) Login(ctx context.Context, role domain.Role, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Email and password are required")
	}
	account, err := s.store.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if account.Role != role || !auth.CheckPassword(account.PasswordHash, password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	var profile any
	switch role {
	case domain.RoleCustomer:
		profile, err = s.store.GetUserProfile(ctx, account.UserProfileID)
	case domain.RoleChef:
		profile, err = s.store.GetChef(ctx, account.ChefProfileID)
	}
	if err != nil {
		return nil, err
	}
	return s.session(ctx, account, profile)
}

func (s *AccountService) session(ctx context.Context, account *domain.Account, profile any) (*Session, error) {
	tokens, err := s.issue(ctx, account)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Profile: profile, Tokens: tokens}, nil
}

// issue signs a token pair and stores the hash of the refresh token.
func (s *AccountService) issue(ctx context.Context, account *domain.Account) (auth.Tokens, error) {
	tokens, err := s.tokens.Issue(domain.Principal{AccountID: account.ID, Role: account.Role})
	if err != nil {
		return auth.Tokens{}, apperr.Internal("Failed to issue tokens", err)
	}
	hash := s.tokens.HashRefresh(tokens.RefreshToken)
	if err := s.store.UpdateAccount(ctx, account.ID, domain.AccountPatch{RefreshTokenHash: &hash}); err != nil {
		return auth.Tokens{}, err
	}
	account.RefreshTokenHash = hash
	return tokens, nil
}

// Refresh rotates the refresh token. A token can be used once.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (auth.Tokens, error) {
	if refreshToken == "" {
		return auth.Tokens{}, apperr.Unauthorized("Unauthorized request")
	}
	p, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Tokens{}, apperr.Unauthorized("Invalid refresh token")
	}
	account, err := s.store.GetAccount(ctx, p.AccountID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return auth.Tokens{}, apperr.Unauthorized("Invalid refresh token")
		}
		return auth.Tokens{}, err
	}
	if account.RefreshTokenHash == "" || account.RefreshTokenHash != s.tokens.HashRefresh(refreshToken) {
		return auth.Tokens{}, apperr.Unauthorized("Refresh token is expired or used")
	}
	return s.issue(ctx, account)
}

func (s *AccountService) Logout(ctx context.Context, p domain.Principal) error {
	empty := ""
	return s.store.UpdateAccount(ctx, p.AccountID, domain.AccountPatch{RefreshTokenHash: &empty})
}

func (s *AccountService) ChangePassword(ctx context.Context, p domain.Principal, oldPassword, newPassword string) error {
	if len(newPassword) < auth.MinPasswordLength {
		return apperr.BadRequest("Password must be at least 6 characters")
	}
	account, err := s.store.GetAccount(ctx, p.AccountID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(account.PasswordHash, oldPassword) {
		return apperr.BadRequest("Invalid old password")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("Failed to hash password", err)
	}
	empty := ""
	return s.store.UpdateAccount(ctx, account.ID, domain.AccountPatch{PasswordHash: &hash, RefreshTokenHash: &empty})
}

func (s *AccountService) Me(ctx context.Context, p domain.Principal) (*domain.Account, error) {
	return s.store.GetAccount(ctx, p.AccountID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
