package storage

import (
	"context"
	"strings"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/lib/pq"
)

const accountColumns = `id, email, password_hash, role, refresh_token_hash, user_profile_id,
	chef_profile_id, is_verified, created_at, updated_at`

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.RefreshTokenHash,
		&a.UserProfileID, &a.ChefProfileID, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, a *domain.Account) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, role, refresh_token_hash, user_profile_id,
			chef_profile_id, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, strings.ToLower(a.Email), a.PasswordHash, a.Role, a.RefreshTokenHash, a.UserProfileID,
		a.ChefProfileID, a.IsVerified, a.CreatedAt, a.UpdatedAt)
	return pgError(err, "Account")
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		return nil, pgError(err, "Account")
	}
	return a, nil
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		strings.ToLower(email))
	a, err := scanAccount(row)
	if err != nil {
		return nil, pgError(err, "Account")
	}
	return a, nil
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch) error {
	return s.update(ctx, "accounts", id, patch.Fields(), "Account")
}

func (s *PostgresStore) DeleteAccount(ctx context.Context, id string) error {
	return s.execOne(ctx, "Account", `DELETE FROM accounts WHERE id = $1`, id)
}

const userProfileColumns = `id, account_id, full_name, phone, avatar, address, booking_history,
	favorite_chefs, created_at, updated_at`

func scanUserProfile(row rowScanner) (*domain.UserProfile, error) {
	var u domain.UserProfile
	err := row.Scan(&u.ID, &u.AccountID, &u.FullName, &u.Phone, &u.Avatar, asJSON(&u.Address),
		pq.Array(&u.BookingHistory), pq.Array(&u.FavoriteChefs), &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateUserProfile(ctx context.Context, u *domain.UserProfile) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO user_profiles (id, account_id, full_name, phone, avatar, address, booking_history,
			favorite_chefs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.AccountID, u.FullName, u.Phone, u.Avatar, asJSON(u.Address),
		pq.Array(nonNil(u.BookingHistory)), pq.Array(nonNil(u.FavoriteChefs)), u.CreatedAt, u.UpdatedAt)
	return pgError(err, "User profile")
}

func (s *PostgresStore) GetUserProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+userProfileColumns+` FROM user_profiles WHERE id = $1`, id)
	u, err := scanUserProfile(row)
	if err != nil {
		return nil, pgError(err, "User profile")
	}
	return u, nil
}

func (s *PostgresStore) UpdateUserProfile(ctx context.Context, id string, patch domain.UserProfilePatch) error {
	return s.update(ctx, "user_profiles", id, patch.Fields(), "User profile")
}

func (s *PostgresStore) AppendBookingHistory(ctx context.Context, userID, bookingID string) error {
	return s.execOne(ctx, "User profile", `
		UPDATE user_profiles
		SET booking_history = array_append(booking_history, $2), updated_at = now()
		WHERE id = $1
	`, userID, bookingID)
}

func (s *PostgresStore) AddFavoriteChef(ctx context.Context, userID, chefID string) error {
	return s.execOne(ctx, "User profile", `
		UPDATE user_profiles
		SET favorite_chefs = CASE WHEN $2 = ANY(favorite_chefs) THEN favorite_chefs
			ELSE array_append(favorite_chefs, $2) END,
			updated_at = now()
		WHERE id = $1
	`, userID, chefID)
}

func (s *PostgresStore) RemoveFavoriteChef(ctx context.Context, userID, chefID string) error {
	return s.execOne(ctx, "User profile", `
		UPDATE user_profiles
		SET favorite_chefs = array_remove(favorite_chefs, $2), updated_at = now()
		WHERE id = $1
	`, userID, chefID)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
