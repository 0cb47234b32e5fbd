package domain

// Summary types are the read-side projections attached to a booking view.

type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

type ChefSummary struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	Phone         string  `json:"phone"`
	Avatar        string  `json:"avatar"`
	AverageRating float64 `json:"average_rating"`
	PricePerHour  int64   `json:"price_per_hour"`
}

type DishSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  int64    `json:"price"`
	Images []string `json:"images"`
}

type BookingView struct {
	Booking
	User       *UserSummary  `json:"user,omitempty"`
	Chef       *ChefSummary  `json:"chef,omitempty"`
	DishDetail []DishSummary `json:"dish_details"`
}

type ChefStats struct {
	TotalDishes       int               `json:"total_dishes"`
	TotalBookings     int               `json:"total_bookings"`
	CompletedBookings int               `json:"completed_bookings"`
	PendingBookings   int               `json:"pending_bookings"`
	ActiveBookings    int               `json:"active_bookings"`
	TotalEarnings     int64             `json:"total_earnings"`
	AverageRating     float64           `json:"average_rating"`
	TotalReviews      int               `json:"total_reviews"`
	IsAvailable       bool              `json:"is_available"`
	AccountStatus     ChefAccountStatus `json:"account_status"`
}
