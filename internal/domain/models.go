package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleChef     Role = "chef"
	RoleAdmin    Role = "admin"
)

type Account struct {
	ID               string    `json:"id" bson:"_id"`
	Email            string    `json:"email" bson:"email"`
	PasswordHash     string    `json:"-" bson:"password_hash"`
	Role             Role      `json:"role" bson:"role"`
	RefreshTokenHash string    `json:"-" bson:"refresh_token_hash,omitempty"`
	UserProfileID    string    `json:"user_profile_id,omitempty" bson:"user_profile_id,omitempty"`
	ChefProfileID    string    `json:"chef_profile_id,omitempty" bson:"chef_profile_id,omitempty"`
	IsVerified       bool      `json:"is_verified" bson:"is_verified"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// ProfileID returns the profile linked to the account for its role.
func (a *Account) ProfileID() string {
	switch a.Role {
	case RoleCustomer:
		return a.UserProfileID
	case RoleChef:
		return a.ChefProfileID
	}
	return ""
}

type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

type UserProfile struct {
	ID             string    `json:"id" bson:"_id"`
	AccountID      string    `json:"account_id" bson:"account_id"`
	FullName       string    `json:"full_name" bson:"full_name"`
	Phone          string    `json:"phone" bson:"phone"`
	Avatar         string    `json:"avatar" bson:"avatar"`
	Address        Address   `json:"address" bson:"address"`
	BookingHistory []string  `json:"booking_history" bson:"booking_history"`
	FavoriteChefs  []string  `json:"favorite_chefs" bson:"favorite_chefs"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

type ChefAccountStatus string

const (
	ChefStatusPending   ChefAccountStatus = "pending"
	ChefStatusActive    ChefAccountStatus = "active"
	ChefStatusInactive  ChefAccountStatus = "inactive"
	ChefStatusSuspended ChefAccountStatus = "suspended"
)

func (s ChefAccountStatus) Valid() bool {
	switch s {
	case ChefStatusPending, ChefStatusActive, ChefStatusInactive, ChefStatusSuspended:
		return true
	}
	return false
}

type ServiceArea struct {
	City     string  `json:"city" bson:"city"`
	State    string  `json:"state,omitempty" bson:"state,omitempty"`
	Country  string  `json:"country,omitempty" bson:"country,omitempty"`
	RadiusKm float64 `json:"radius_km,omitempty" bson:"radius_km,omitempty"`
}

// DefaultMinimumBookingHours applies when a chef never set a minimum.
const DefaultMinimumBookingHours = 2

type ChefProfile struct {
	ID                  string            `json:"id" bson:"_id"`
	AccountID           string            `json:"account_id" bson:"account_id"`
	FullName            string            `json:"full_name" bson:"full_name"`
	Phone               string            `json:"phone" bson:"phone"`
	Avatar              string            `json:"avatar" bson:"avatar"`
	CoverImage          string            `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Bio                 string            `json:"bio,omitempty" bson:"bio,omitempty"`
	Specialization      []string          `json:"specialization" bson:"specialization"`
	ExperienceYears     int               `json:"experience_years" bson:"experience_years"`
	ServiceLocations    []ServiceArea     `json:"service_locations" bson:"service_locations"`
	Dishes              []string          `json:"dishes" bson:"dishes"`
	PricePerHour        int64             `json:"price_per_hour" bson:"price_per_hour"`
	MinimumBookingHours int               `json:"minimum_booking_hours" bson:"minimum_booking_hours"`
	AverageRating       float64           `json:"average_rating" bson:"average_rating"`
	TotalReviews        int               `json:"total_reviews" bson:"total_reviews"`
	TotalBookings       int               `json:"total_bookings" bson:"total_bookings"`
	CompletedBookings   int               `json:"completed_bookings" bson:"completed_bookings"`
	IsAvailable         bool              `json:"is_available" bson:"is_available"`
	IsApproved          bool              `json:"is_approved" bson:"is_approved"`
	AccountStatus       ChefAccountStatus `json:"account_status" bson:"account_status"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" bson:"updated_at"`
}

// BookingHours falls back to DefaultMinimumBookingHours when unset.
func (c *ChefProfile) BookingHours() int {
	if c.MinimumBookingHours <= 0 {
		return DefaultMinimumBookingHours
	}
	return c.MinimumBookingHours
}

// AcceptsBookings reports whether the chef is approved, active and available.
func (c *ChefProfile) AcceptsBookings() bool {
	return c.IsApproved && c.AccountStatus == ChefStatusActive && c.IsAvailable
}

type DietaryInfo struct {
	IsVegetarian bool   `json:"is_vegetarian" bson:"is_vegetarian"`
	IsVegan      bool   `json:"is_vegan" bson:"is_vegan"`
	IsGlutenFree bool   `json:"is_gluten_free" bson:"is_gluten_free"`
	SpiceLevel   string `json:"spice_level,omitempty" bson:"spice_level,omitempty"`
}

type Dish struct {
	ID              string      `json:"id" bson:"_id"`
	ChefID          string      `json:"chef_id" bson:"chef_id"`
	Name            string      `json:"name" bson:"name"`
	Description     string      `json:"description" bson:"description"`
	Category        string      `json:"category" bson:"category"`
	Cuisine         string      `json:"cuisine" bson:"cuisine"`
	Images          []string    `json:"images" bson:"images"`
	PreparationTime int         `json:"preparation_time" bson:"preparation_time"`
	Servings        int         `json:"servings" bson:"servings"`
	Price           int64       `json:"price" bson:"price"`
	Dietary         DietaryInfo `json:"dietary" bson:"dietary"`
	Tags            []string    `json:"tags" bson:"tags"`
	IsAvailable     bool        `json:"is_available" bson:"is_available"`
	OrdersCount     int         `json:"orders_count" bson:"orders_count"`
	Rating          float64     `json:"rating" bson:"rating"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

type LineItem struct {
	DishID   string `json:"dish_id" bson:"dish_id"`
	Quantity int    `json:"quantity" bson:"quantity"`
	Price    int64  `json:"price" bson:"price"`
}

type ServiceLocation struct {
	Address   string   `json:"address" bson:"address"`
	City      string   `json:"city,omitempty" bson:"city,omitempty"`
	State     string   `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode   string   `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentWallet:
		return true
	}
	return false
}

type Actor string

const (
	ActorUser  Actor = "user"
	ActorChef  Actor = "chef"
	ActorAdmin Actor = "admin"
)

const DefaultEventType = "Casual Dinner"

type Booking struct {
	ID                  string          `json:"id" bson:"_id"`
	UserID              string          `json:"user_id" bson:"user_id"`
	ChefID              string          `json:"chef_id" bson:"chef_id"`
	Dishes              []LineItem      `json:"dishes" bson:"dishes"`
	BookingDate         time.Time       `json:"booking_date" bson:"booking_date"`
	BookingTime         string          `json:"booking_time" bson:"booking_time"`
	EventType           string          `json:"event_type" bson:"event_type"`
	GuestCount          int             `json:"guest_count" bson:"guest_count"`
	ServiceLocation     ServiceLocation `json:"service_location" bson:"service_location"`
	DishesTotal         int64           `json:"dishes_total" bson:"dishes_total"`
	ChefFee             int64           `json:"chef_fee" bson:"chef_fee"`
	PlatformFee         int64           `json:"platform_fee" bson:"platform_fee"`
	Taxes               int64           `json:"taxes" bson:"taxes"`
	TotalAmount         int64           `json:"total_amount" bson:"total_amount"`
	PaymentStatus       PaymentStatus   `json:"payment_status" bson:"payment_status"`
	PaymentMethod       PaymentMethod   `json:"payment_method" bson:"payment_method"`
	BookingStatus       BookingStatus   `json:"booking_status" bson:"booking_status"`
	SpecialInstructions string          `json:"special_instructions,omitempty" bson:"special_instructions,omitempty"`
	DietaryRestrictions []string        `json:"dietary_restrictions" bson:"dietary_restrictions"`
	CancellationReason  string          `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CancelledBy         Actor           `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelledAt         *time.Time      `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" bson:"updated_at"`
}

// ApplyQuote copies the priced amounts onto the booking.
func (b *Booking) ApplyQuote(q Quote) {
	b.DishesTotal = q.DishesTotal
	b.ChefFee = q.ChefFee
	b.PlatformFee = q.PlatformFee
	b.Taxes = q.Taxes
	b.TotalAmount = q.TotalAmount
}

// Quote is the priced breakdown of a booking.
type Quote struct {
	Items       []LineItem `json:"items"`
	DishesTotal int64      `json:"dishes_total"`
	ChefFee     int64      `json:"chef_fee"`
	PlatformFee int64      `json:"platform_fee"`
	Taxes       int64      `json:"taxes"`
	TotalAmount int64      `json:"total_amount"`
}

type ChefResponse struct {
	Comment     string    `json:"comment" bson:"comment"`
	RespondedAt time.Time `json:"responded_at" bson:"responded_at"`
}

type Review struct {
	ID              string        `json:"id" bson:"_id"`
	BookingID       string        `json:"booking_id" bson:"booking_id"`
	UserID          string        `json:"user_id" bson:"user_id"`
	ChefID          string        `json:"chef_id" bson:"chef_id"`
	Rating          int           `json:"rating" bson:"rating"`
	FoodQuality     *int          `json:"food_quality,omitempty" bson:"food_quality,omitempty"`
	Professionalism *int          `json:"professionalism,omitempty" bson:"professionalism,omitempty"`
	Punctuality     *int          `json:"punctuality,omitempty" bson:"punctuality,omitempty"`
	Comment         string        `json:"comment" bson:"comment"`
	ChefResponse    *ChefResponse `json:"chef_response,omitempty" bson:"chef_response,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
}
