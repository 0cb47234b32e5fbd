package domain_test

import (
	"testing"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from domain.BookingStatus
		to   domain.BookingStatus
		want bool
	}{
		{domain.BookingPending, domain.BookingConfirmed, true},
		{domain.BookingPending, domain.BookingCancelled, true},
		{domain.BookingPending, domain.BookingCompleted, false},
		{domain.BookingPending, domain.BookingInProgress, false},
		{domain.BookingConfirmed, domain.BookingInProgress, true},
		{domain.BookingConfirmed, domain.BookingCancelled, true},
		{domain.BookingConfirmed, domain.BookingCompleted, false},
		{domain.BookingInProgress, domain.BookingCompleted, true},
		{domain.BookingInProgress, domain.BookingCancelled, true},
		{domain.BookingCompleted, domain.BookingCancelled, false},
		{domain.BookingCancelled, domain.BookingConfirmed, false},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.from)+"->"+string(testCase.to), func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.from.CanTransition(testCase.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.BookingCompleted.IsTerminal())
	assert.True(t, domain.BookingCancelled.IsTerminal())
	assert.False(t, domain.BookingPending.IsTerminal())
	assert.Empty(t, domain.BookingCompleted.Next())
	assert.False(t, domain.IsChefTarget(domain.BookingPending))
	assert.True(t, domain.IsChefTarget(domain.BookingInProgress))
}

func TestRatingTally_Average(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{name: "empty", ratings: nil, want: 0},
		{name: "single", ratings: []int{4}, want: 4.0},
		{name: "four and five", ratings: []int{4, 5}, want: 4.5},
		{name: "rounds half up", ratings: []int{5, 5, 4, 4, 4, 4, 4, 4}, want: 4.3},
		{name: "one third", ratings: []int{5, 4, 4}, want: 4.3},
		{name: "two thirds", ratings: []int{5, 5, 4}, want: 4.7},
		{name: "exact half tenth", ratings: []int{1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}, want: 2.0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var tally domain.RatingTally
			for _, r := range testCase.ratings {
				tally = tally.Add(r)
			}
			assert.Equal(t, len(testCase.ratings), tally.Count)
			assert.InDelta(t, testCase.want, tally.Average(), 1e-9)
		})
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        domain.Page
	}{
		{name: "defaults", page: 0, limit: 0, want: domain.Page{Page: 1, Limit: 10}},
		{name: "negative page", page: -3, limit: 5, want: domain.Page{Page: 1, Limit: 5}},
		{name: "negative limit", page: 2, limit: -1, want: domain.Page{Page: 2, Limit: 1}},
		{name: "limit capped", page: 1, limit: 500, want: domain.Page{Page: 1, Limit: 100}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, domain.NewPage(testCase.page, testCase.limit))
		})
	}

	p := domain.NewPage(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, domain.Pagination{Page: 3, Limit: 10, Total: 21, TotalPages: 3}, p.Of(21))
}

func TestBookingPatch_Apply(t *testing.T) {
	status := domain.BookingCancelled
	actor := domain.ActorChef
	reason := "Chef unavailable"
	b := &domain.Booking{BookingStatus: domain.BookingPending}

	patch := domain.BookingPatch{BookingStatus: &status, CancelledBy: &actor, CancellationReason: &reason}
	patch.Apply(b)

	assert.Equal(t, domain.BookingCancelled, b.BookingStatus)
	assert.Equal(t, domain.ActorChef, b.CancelledBy)
	assert.Equal(t, reason, b.CancellationReason)
	assert.Len(t, patch.Fields(), 3)
}

func TestChefProfile_Helpers(t *testing.T) {
	chef := domain.ChefProfile{IsApproved: true, AccountStatus: domain.ChefStatusActive, IsAvailable: true}
	assert.Equal(t, 2, chef.BookingHours())
	assert.True(t, chef.AcceptsBookings())

	chef.MinimumBookingHours = 4
	chef.IsAvailable = false
	assert.Equal(t, 4, chef.BookingHours())
	assert.False(t, chef.AcceptsBookings())
}
