package domain

// Ranked is one member of a Redis leaderboard.
type Ranked struct {
	ID    string
	Score float64
}

type DishAnalytics struct {
	DishID   string  `json:"dish_id"`
	DishName string  `json:"dish_name"`
	ChefID   string  `json:"chef_id"`
	Score    float64 `json:"score"`
}

type ChefAnalytics struct {
	ChefID        string  `json:"chef_id"`
	FullName      string  `json:"full_name"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}
