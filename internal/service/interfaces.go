package service

import (
	"context"
	"io"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/storage"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, a *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch) error
	DeleteAccount(ctx context.Context, id string) error
}

type UserProfileRepository interface {
	CreateUserProfile(ctx context.Context, u *domain.UserProfile) error
	GetUserProfile(ctx context.Context, id string) (*domain.UserProfile, error)
	UpdateUserProfile(ctx context.Context, id string, patch domain.UserProfilePatch) error
	AppendBookingHistory(ctx context.Context, userID, bookingID string) error
	AddFavoriteChef(ctx context.Context, userID, chefID string) error
	RemoveFavoriteChef(ctx context.Context, userID, chefID string) error
}

type ChefRepository interface {
	CreateChef(ctx context.Context, c *domain.ChefProfile) error
	GetChef(ctx context.Context, id string) (*domain.ChefProfile, error)
	GetChefsByIDs(ctx context.Context, ids []string) ([]domain.ChefProfile, error)
	UpdateChef(ctx context.Context, id string, patch domain.ChefPatch) error
	IncrementChefCounters(ctx context.Context, id string, delta domain.ChefCounters) error
	SetChefRating(ctx context.Context, id string, average float64, total int) error
	AddChefDish(ctx context.Context, chefID, dishID string) error
	RemoveChefDish(ctx context.Context, chefID, dishID string) error
	ListChefs(ctx context.Context, f domain.ChefFilter) ([]domain.ChefProfile, int, error)
}

type DishRepository interface {
	CreateDish(ctx context.Context, d *domain.Dish) error
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error)
	UpdateDish(ctx context.Context, id string, patch domain.DishPatch) error
	DeleteDish(ctx context.Context, id string) error
	IncrementOrderCounts(ctx context.Context, counts map[string]int) error
	ListDishes(ctx context.Context, f domain.DishFilter) ([]domain.Dish, int, error)
	CountDishes(ctx context.Context, chefID string) (int, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b *domain.Booking) error
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error
	ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error)
	CountBookings(ctx context.Context, f domain.BookingFilter) (int, error)
	SumChefEarnings(ctx context.Context, chefID string) (int64, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, r *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetReviewByBooking(ctx context.Context, bookingID string) (*domain.Review, error)
	ListChefReviews(ctx context.Context, chefID string, page domain.Page) ([]domain.Review, int, error)
	ChefRatingTally(ctx context.Context, chefID string) (domain.RatingTally, error)
	SetReviewResponse(ctx context.Context, id string, resp domain.ChefResponse) error
}

// Store is every repository of one backend plus its unit of work.
type Store interface {
	AccountRepository
	UserProfileRepository
	ChefRepository
	DishRepository
	BookingRepository
	ReviewRepository
	Unit() *storage.Unit
}

// UnitOfWork runs work atomically when the store allows it. Repositories
// must be called with the ctx handed to work.
type UnitOfWork interface {
	Run(ctx context.Context, work func(ctx context.Context) error) error
}

type ReviewCache interface {
	ReviewMarkerKey(bookingID string) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

type RatingCache interface {
	CacheChefRating(ctx context.Context, chefID string, average float64, total int) error
}

type AnalyticsCache interface {
	RatingCache
	RecordDishOrders(ctx context.Context, day time.Time, items []domain.LineItem) error
	TopDishes(ctx context.Context, day time.Time, limit int) ([]domain.Ranked, error)
	TopChefs(ctx context.Context, limit int) ([]domain.Ranked, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

type Uploader interface {
	Upload(ctx context.Context, folder, name string, r io.Reader) (string, error)
}

type QRGenerator interface {
	Generate(bookingID string) ([]byte, error)
}

type TokenIssuer interface {
	Issue(p domain.Principal) (auth.Tokens, error)
	ParseRefresh(token string) (domain.Principal, error)
	HashRefresh(token string) string
}

type AccountServiceInterface interface {
	RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*Session, error)
	RegisterChef(ctx context.Context, in RegisterChefInput) (*Session, error)
	Login(ctx context.Context, role domain.Role, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Tokens, error)
	Logout(ctx context.Context, p domain.Principal) error
	ChangePassword(ctx context.Context, p domain.Principal, oldPassword, newPassword string) error
	Me(ctx context.Context, p domain.Principal) (*domain.Account, error)
}

type UserServiceInterface interface {
	Profile(ctx context.Context, p domain.Principal) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, p domain.Principal, patch domain.UserProfilePatch) (*domain.UserProfile, error)
	UpdateAvatar(ctx context.Context, p domain.Principal, name string, r io.Reader) (*domain.UserProfile, error)
	AddFavorite(ctx context.Context, p domain.Principal, chefID string) error
	RemoveFavorite(ctx context.Context, p domain.Principal, chefID string) error
	Favorites(ctx context.Context, p domain.Principal) ([]domain.ChefSummary, error)
}

type ChefServiceInterface interface {
	Profile(ctx context.Context, p domain.Principal) (*domain.ChefProfile, error)
	UpdateProfile(ctx context.Context, p domain.Principal, patch domain.ChefPatch) (*domain.ChefProfile, error)
	UpdateImage(ctx context.Context, p domain.Principal, kind ImageKind, name string, r io.Reader) (*domain.ChefProfile, error)
	ToggleAvailability(ctx context.Context, p domain.Principal) (*domain.ChefProfile, error)
	Stats(ctx context.Context, p domain.Principal) (*domain.ChefStats, error)
	AddDish(ctx context.Context, p domain.Principal, in DishInput, images []Upload) (*domain.Dish, error)
	UpdateDish(ctx context.Context, p domain.Principal, dishID string, patch domain.DishPatch, images []Upload) (*domain.Dish, error)
	DeleteDish(ctx context.Context, p domain.Principal, dishID string) error
	Dishes(ctx context.Context, p domain.Principal, page domain.Page) (domain.Paged[domain.Dish], error)
}

type CatalogServiceInterface interface {
	ListChefs(ctx context.Context, f domain.ChefFilter) (domain.Paged[domain.ChefProfile], error)
	Chef(ctx context.Context, id string) (*domain.ChefProfile, error)
	ChefDishes(ctx context.Context, chefID string, page domain.Page) (domain.Paged[domain.Dish], error)
	SearchDishes(ctx context.Context, f domain.DishFilter) (domain.Paged[domain.Dish], error)
	Dish(ctx context.Context, id string) (*domain.Dish, error)
	ChefReviews(ctx context.Context, chefID string, page domain.Page) (domain.Paged[domain.Review], error)
}

type BookingServiceInterface interface {
	Create(ctx context.Context, p domain.Principal, in CreateBookingInput) (*domain.BookingView, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.BookingView, error)
	Cancel(ctx context.Context, p domain.Principal, id, reason string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, p domain.Principal, id string, target domain.BookingStatus) (*domain.Booking, error)
	ListForUser(ctx context.Context, p domain.Principal, status string, page domain.Page) (domain.Paged[domain.Booking], error)
	ListForChef(ctx context.Context, p domain.Principal, status string, page domain.Page) (domain.Paged[domain.Booking], error)
	QRCode(ctx context.Context, p domain.Principal, id string) ([]byte, error)
}

type ReviewServiceInterface interface {
	Add(ctx context.Context, p domain.Principal, bookingID string, in ReviewInput) (*domain.Review, error)
	Respond(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.Review, error)
}

type AdminServiceInterface interface {
	PendingChefs(ctx context.Context, page domain.Page) (domain.Paged[domain.ChefProfile], error)
	ApproveChef(ctx context.Context, chefID string) (*domain.ChefProfile, error)
	RejectChef(ctx context.Context, chefID string) (*domain.ChefProfile, error)
	SuspendChef(ctx context.Context, chefID string) (*domain.ChefProfile, error)
	ListBookings(ctx context.Context, status string, page domain.Page) (domain.Paged[domain.Booking], error)
}

type AnalyticsInterface interface {
	TopDishesToday(ctx context.Context, limit int) ([]domain.DishAnalytics, error)
	TopChefs(ctx context.Context, limit int) ([]domain.ChefAnalytics, error)
}

var (
	_ Store = (*storage.PostgresStore)(nil)
	_ Store = (*storage.MongoStore)(nil)
	_ Store = (*storage.MemoryStore)(nil)

	_ UnitOfWork     = (*storage.Unit)(nil)
	_ ReviewCache    = (*storage.RedisCache)(nil)
	_ AnalyticsCache = (*storage.RedisCache)(nil)
	_ EventPublisher = (*storage.KafkaPublisher)(nil)
	_ TokenIssuer    = (*auth.Issuer)(nil)

	_ AccountServiceInterface = (*AccountService)(nil)
	_ UserServiceInterface    = (*UserService)(nil)
	_ ChefServiceInterface    = (*ChefService)(nil)
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ BookingServiceInterface = (*BookingService)(nil)
	_ ReviewServiceInterface  = (*ReviewService)(nil)
	_ AdminServiceInterface   = (*AdminService)(nil)
	_ AnalyticsInterface      = (*AnalyticsService)(nil)
	_ EventPublisher          = (*Consumer)(nil)
	_ QRGenerator             = DefaultQRGenerator{}
)
