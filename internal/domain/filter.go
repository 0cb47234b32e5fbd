package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPage clamps page to >= 1 and limit to 1..100, with 0 meaning the default.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = DefaultPageLimit
	case limit < 1:
		limit = 1
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func (p Page) Of(total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

type BookingFilter struct {
	UserID   string
	ChefID   string
	Statuses []BookingStatus
	Page     Page
}

type ChefFilter struct {
	Specialization string
	City           string
	Search         string
	MinRating      float64
	// Bookable limits results to approved, active chefs.
	Bookable bool
	Status   ChefAccountStatus
	Page     Page
}

type DishFilter struct {
	ChefID        string
	Category      string
	Cuisine       string
	Search        string
	Vegetarian    *bool
	OnlyAvailable bool
	Page          Page
}

// Paged wraps one page of results.
type Paged[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
