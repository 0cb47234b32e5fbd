package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
)

// PostgresStore keeps every aggregate in its own table. Nested values are
// JSONB, reference collections are text[].
type PostgresStore struct {
	DB      *sql.DB
	dialect goqu.DialectWrapper
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db, dialect: goqu.Dialect("postgres")}
}

type pgTxKey struct{}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried by ctx, or the pool.
func (s *PostgresStore) conn(ctx context.Context) execer {
	if tx, ok := ctx.Value(pgTxKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.DB
}

type pgTransaction struct {
	tx *sql.Tx
}

func (t pgTransaction) Commit(context.Context) error { return t.tx.Commit() }
func (t pgTransaction) Abort(context.Context) error  { return t.tx.Rollback() }

func (s *PostgresStore) Unit() *Unit {
	return &Unit{
		driver: "postgres",
		begin: func(ctx context.Context) (context.Context, transaction, error) {
			tx, err := s.DB.BeginTx(ctx, nil)
			if err != nil {
				return ctx, nil, err
			}
			return context.WithValue(ctx, pgTxKey{}, tx), pgTransaction{tx: tx}, nil
		},
		unsupported: isPostgresTxUnsupported,
	}
}

// isPostgresTxUnsupported recognises servers and statement-mode poolers
// that refuse transaction blocks.
func isPostgresTxUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransactionsUnsupported) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "0A000" {
		return true
	}
	return strings.Contains(err.Error(), "transaction blocks not allowed")
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		refresh_token_hash TEXT NOT NULL DEFAULT '',
		user_profile_id TEXT NOT NULL DEFAULT '',
		chef_profile_id TEXT NOT NULL DEFAULT '',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		address JSONB NOT NULL DEFAULT '{}',
		booking_history TEXT[] NOT NULL DEFAULT '{}',
		favorite_chefs TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS chef_profiles (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		cover_image TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		specialization TEXT[] NOT NULL DEFAULT '{}',
		experience_years INT NOT NULL DEFAULT 0,
		service_locations JSONB NOT NULL DEFAULT '[]',
		dishes TEXT[] NOT NULL DEFAULT '{}',
		price_per_hour BIGINT NOT NULL DEFAULT 0,
		minimum_booking_hours INT NOT NULL DEFAULT 2,
		average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_reviews INT NOT NULL DEFAULT 0,
		total_bookings INT NOT NULL DEFAULT 0,
		completed_bookings INT NOT NULL DEFAULT 0,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		is_approved BOOLEAN NOT NULL DEFAULT FALSE,
		account_status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		id TEXT PRIMARY KEY,
		chef_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		cuisine TEXT NOT NULL DEFAULT '',
		images TEXT[] NOT NULL DEFAULT '{}',
		preparation_time INT NOT NULL DEFAULT 0,
		servings INT NOT NULL DEFAULT 1,
		price BIGINT NOT NULL CHECK (price >= 0),
		dietary JSONB NOT NULL DEFAULT '{}',
		tags TEXT[] NOT NULL DEFAULT '{}',
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		orders_count INT NOT NULL DEFAULT 0,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS dishes_chef_id_idx ON dishes (chef_id)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		chef_id TEXT NOT NULL,
		dishes JSONB NOT NULL DEFAULT '[]',
		booking_date TIMESTAMPTZ NOT NULL,
		booking_time TEXT NOT NULL,
		event_type TEXT NOT NULL,
		guest_count INT NOT NULL CHECK (guest_count >= 1),
		service_location JSONB NOT NULL DEFAULT '{}',
		dishes_total BIGINT NOT NULL,
		chef_fee BIGINT NOT NULL,
		platform_fee BIGINT NOT NULL,
		taxes BIGINT NOT NULL,
		total_amount BIGINT NOT NULL,
		payment_status TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		booking_status TEXT NOT NULL,
		special_instructions TEXT NOT NULL DEFAULT '',
		dietary_restrictions TEXT[] NOT NULL DEFAULT '{}',
		cancellation_reason TEXT NOT NULL DEFAULT '',
		cancelled_by TEXT NOT NULL DEFAULT '',
		cancelled_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id, booking_date DESC)`,
	`CREATE INDEX IF NOT EXISTS bookings_chef_id_idx ON bookings (chef_id, booking_date DESC)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		chef_id TEXT NOT NULL,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		food_quality INT,
		professionalism INT,
		punctuality INT,
		comment TEXT NOT NULL DEFAULT '',
		chef_response JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS reviews_booking_id_key ON reviews (booking_id)`,
	`CREATE INDEX IF NOT EXISTS reviews_chef_id_idx ON reviews (chef_id, created_at DESC)`,
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// pgError maps driver errors onto application errors.
func pgError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s not found", what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &apperr.Error{Kind: apperr.KindConflict, Message: what + " already exists", Err: err}
	}
	if isPostgresTxUnsupported(err) {
		return err
	}
	return apperr.Internal("failed to access "+strings.ToLower(what), err)
}

// jsonb adapts nested values to JSONB columns.
type jsonb struct {
	v any
}

func asJSON(v any) jsonb { return jsonb{v: v} }

func (j jsonb) Value() (driver.Value, error) {
	b, err := json.Marshal(j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j jsonb) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, j.v)
	case string:
		return json.Unmarshal([]byte(v), j.v)
	}
	return fmt.Errorf("jsonb: unsupported source %T", src)
}

// patchRecord turns a domain patch into a goqu SET record.
func patchRecord(fields map[string]any) goqu.Record {
	rec := goqu.Record{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		switch val := v.(type) {
		case []string:
			rec[k] = pq.Array(val)
		case domain.Address, domain.DietaryInfo, []domain.ServiceArea:
			rec[k] = asJSON(val)
		case domain.BookingStatus:
			rec[k] = string(val)
		case domain.PaymentStatus:
			rec[k] = string(val)
		case domain.Actor:
			rec[k] = string(val)
		case domain.ChefAccountStatus:
			rec[k] = string(val)
		default:
			rec[k] = val
		}
	}
	return rec
}

func (s *PostgresStore) update(ctx context.Context, table, id string, fields map[string]any, what string) error {
	query, args, err := s.dialect.Update(table).
		Prepared(true).
		Set(patchRecord(fields)).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperr.Internal("failed to build update query", err)
	}
	return s.execOne(ctx, what, query, args...)
}

// execOne runs a single-row write and reports NotFound when nothing matched.
func (s *PostgresStore) execOne(ctx context.Context, what, query string, args ...any) error {
	res, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return pgError(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pgError(err, what)
	}
	if n == 0 {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

func (s *PostgresStore) count(ctx context.Context, ds *goqu.SelectDataset, what string) (int, error) {
	query, args, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperr.Internal("failed to build count query", err)
	}
	var total int
	if err := s.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, pgError(err, what)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
