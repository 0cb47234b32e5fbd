package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/gorilla/mux"
)

const maxUploadSize = 10 << 20

// Services groups the application services the handlers call.
type Services struct {
	Accounts  service.AccountServiceInterface
	Users     service.UserServiceInterface
	Chefs     service.ChefServiceInterface
	Catalog   service.CatalogServiceInterface
	Bookings  service.BookingServiceInterface
	Reviews   service.ReviewServiceInterface
	Admin     service.AdminServiceInterface
	Analytics service.AnalyticsInterface
}

type Handler struct {
	Services
	Tokens     TokenParser
	Production bool
}

func NewHandler(services Services, tokens TokenParser, production bool) *Handler {
	return &Handler{Services: services, Tokens: tokens, Production: production}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	users := r.PathPrefix("/api/v1/users").Subrouter()
	users.HandleFunc("/register", h.registerCustomer).Methods("POST")
	users.HandleFunc("/login", h.login(domain.RoleCustomer)).Methods("POST")
	users.HandleFunc("/refresh-token", h.refreshToken).Methods("POST")
	users.HandleFunc("/logout", h.authenticated(h.logout)).Methods("POST")
	users.HandleFunc("/change-password", h.authenticated(h.changePassword)).Methods("POST")
	users.HandleFunc("/me", h.authenticated(h.me)).Methods("GET")
	users.HandleFunc("/profile", h.authenticated(h.userProfile, domain.RoleCustomer)).Methods("GET")
	users.HandleFunc("/profile/update", h.authenticated(h.updateUserProfile, domain.RoleCustomer)).Methods("PATCH")
	users.HandleFunc("/profile/avatar", h.authenticated(h.updateUserAvatar, domain.RoleCustomer)).Methods("PATCH")
	users.HandleFunc("/bookings", h.authenticated(h.userBookings, domain.RoleCustomer)).Methods("GET")
	users.HandleFunc("/favorites", h.authenticated(h.favorites, domain.RoleCustomer)).Methods("GET")
	users.HandleFunc("/favorites/{chefId}", h.authenticated(h.addFavorite, domain.RoleCustomer)).Methods("POST")
	users.HandleFunc("/favorites/{chefId}", h.authenticated(h.removeFavorite, domain.RoleCustomer)).Methods("DELETE")

	chefs := r.PathPrefix("/api/v1/chefs").Subrouter()
	chefs.HandleFunc("/register", h.registerChef).Methods("POST")
	chefs.HandleFunc("/login", h.login(domain.RoleChef)).Methods("POST")
	chefs.HandleFunc("/logout", h.authenticated(h.logout, domain.RoleChef)).Methods("POST")
	chefs.HandleFunc("/profile", h.authenticated(h.chefProfile, domain.RoleChef)).Methods("GET")
	chefs.HandleFunc("/profile/update", h.authenticated(h.updateChefProfile, domain.RoleChef)).Methods("PATCH")
	chefs.HandleFunc("/profile/{kind:avatar|cover}", h.authenticated(h.updateChefImage, domain.RoleChef)).Methods("PATCH")
	chefs.HandleFunc("/dishes", h.authenticated(h.chefDishes, domain.RoleChef)).Methods("GET")
	chefs.HandleFunc("/dishes/add", h.authenticated(h.addDish, domain.RoleChef)).Methods("POST")
	chefs.HandleFunc("/dishes/{dishId}", h.authenticated(h.updateDish, domain.RoleChef)).Methods("PATCH")
	chefs.HandleFunc("/dishes/{dishId}", h.authenticated(h.deleteDish, domain.RoleChef)).Methods("DELETE")
	chefs.HandleFunc("/bookings", h.authenticated(h.chefBookings, domain.RoleChef)).Methods("GET")
	chefs.HandleFunc("/bookings/{bookingId}/status", h.authenticated(h.updateBookingStatus, domain.RoleChef)).Methods("PATCH")
	chefs.HandleFunc("/reviews/{reviewId}/respond", h.authenticated(h.respondToReview, domain.RoleChef)).Methods("POST")
	chefs.HandleFunc("/stats", h.authenticated(h.chefStats, domain.RoleChef)).Methods("GET")
	chefs.HandleFunc("/availability/toggle", h.authenticated(h.toggleAvailability, domain.RoleChef)).Methods("PATCH")

	public := r.PathPrefix("/api/v1/public").Subrouter()
	public.HandleFunc("/chefs", h.listChefs).Methods("GET")
	public.HandleFunc("/chefs/search", h.listChefs).Methods("GET")
	public.HandleFunc("/chefs/{chefId}", h.getChef).Methods("GET")
	public.HandleFunc("/chefs/{chefId}/dishes", h.getChefDishes).Methods("GET")
	public.HandleFunc("/chefs/{chefId}/reviews", h.getChefReviews).Methods("GET")
	public.HandleFunc("/dishes", h.searchDishes).Methods("GET")
	public.HandleFunc("/dishes/{dishId}", h.getDish).Methods("GET")

	bookings := r.PathPrefix("/api/v1/bookings").Subrouter()
	bookings.HandleFunc("/create", h.authenticated(h.createBooking, domain.RoleCustomer)).Methods("POST")
	bookings.HandleFunc("/{bookingId}", h.authenticated(h.getBooking)).Methods("GET")
	bookings.HandleFunc("/{bookingId}/cancel", h.authenticated(h.cancelBooking)).Methods("PATCH")
	bookings.HandleFunc("/{bookingId}/review", h.authenticated(h.addReview, domain.RoleCustomer)).Methods("POST")
	bookings.HandleFunc("/{bookingId}/qrcode", h.authenticated(h.bookingQRCode)).Methods("GET")

	admin := r.PathPrefix("/api/v1/admin").Subrouter()
	admin.HandleFunc("/login", h.login(domain.RoleAdmin)).Methods("POST")
	admin.HandleFunc("/chefs/pending", h.authenticated(h.pendingChefs, domain.RoleAdmin)).Methods("GET")
	admin.HandleFunc("/chefs/{chefId}/{action:approve|reject|suspend}", h.authenticated(h.moderateChef, domain.RoleAdmin)).Methods("PATCH")
	admin.HandleFunc("/bookings", h.authenticated(h.adminBookings, domain.RoleAdmin)).Methods("GET")

	r.HandleFunc("/api/analytics/dishes/today", h.topDishesToday).Methods("GET")
	r.HandleFunc("/api/analytics/chefs/top", h.topChefs).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "cheifidea",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func pageFrom(r *http.Request) domain.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.NewPage(page, limit)
}

func limitFrom(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// parseMaybeJSON decodes a form value that may hold either a JSON document
// or, for string lists, a comma separated value.
func parseMaybeJSON(raw string, dst any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err == nil {
		return nil
	}
	list, ok := dst.(*[]string)
	if !ok {
		return json.Unmarshal([]byte(raw), dst)
	}
	*list = (*list)[:0]
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*list = append(*list, part)
		}
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
