package domain

// RatingTally is the running sum and count of a chef's review ratings.
type RatingTally struct {
	Sum   int64 `json:"sum"`
	Count int   `json:"count"`
}

func (t RatingTally) Add(rating int) RatingTally {
	return RatingTally{Sum: t.Sum + int64(rating), Count: t.Count + 1}
}

// Average is sum/count rounded half up to one decimal place.
func (t RatingTally) Average() float64 {
	if t.Count == 0 {
		return 0
	}
	tenths := (t.Sum*20 + int64(t.Count)) / (int64(t.Count) * 2)
	return float64(tenths) / 10
}
