package service_test

import (
	"math"
	"testing"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceBooking(t *testing.T) {
	chef := &domain.ChefProfile{ID: "chef-1", PricePerHour: 500}
	dishes := map[string]domain.Dish{
		"d-1": {ID: "d-1", ChefID: "chef-1", Name: "Paneer Tikka", Price: 200, IsAvailable: true},
		"d-2": {ID: "d-2", ChefID: "chef-1", Name: "Dal Makhani", Price: 150, IsAvailable: true},
		"d-3": {ID: "d-3", ChefID: "chef-1", Name: "Biryani", Price: 300},
		"d-9": {ID: "d-9", ChefID: "chef-2", Name: "Risotto", Price: 400, IsAvailable: true},
		"d-x": {ID: "d-x", ChefID: "chef-1", Name: "Lassi", Price: 10, IsAvailable: true},
		"d-$": {ID: "d-$", ChefID: "chef-1", Name: "Caviar", Price: math.MaxInt64 / 1000, IsAvailable: true},
	}

	tests := []struct {
		name          string
		chef          *domain.ChefProfile
		items         []service.ItemRequest
		expected      domain.Quote
		expectedKind  apperr.Kind
		expectedError string
	}{
		{
			name:  "two_dishes_default_hours",
			chef:  chef,
			items: []service.ItemRequest{{DishID: "d-1", Quantity: 2}, {DishID: "d-2", Quantity: 1}},
			expected: domain.Quote{
				Items: []domain.LineItem{
					{DishID: "d-1", Quantity: 2, Price: 200},
					{DishID: "d-2", Quantity: 1, Price: 150},
				},
				DishesTotal: 550, ChefFee: 1000, PlatformFee: 28, Taxes: 279, TotalAmount: 1857,
			},
		},
		{
			name:  "zero_quantity_counts_as_one",
			chef:  chef,
			items: []service.ItemRequest{{DishID: "d-2"}},
			expected: domain.Quote{
				Items:       []domain.LineItem{{DishID: "d-2", Quantity: 1, Price: 150}},
				DishesTotal: 150, ChefFee: 1000, PlatformFee: 8, Taxes: 207, TotalAmount: 1365,
			},
		},
		{
			name:  "halves_round_up",
			chef:  &domain.ChefProfile{ID: "chef-1"},
			items: []service.ItemRequest{{DishID: "d-x", Quantity: 1}},
			expected: domain.Quote{
				Items:       []domain.LineItem{{DishID: "d-x", Quantity: 1, Price: 10}},
				DishesTotal: 10, ChefFee: 0, PlatformFee: 1, Taxes: 2, TotalAmount: 13,
			},
		},
		{
			name:  "chef_minimum_hours",
			chef:  &domain.ChefProfile{ID: "chef-1", PricePerHour: 100, MinimumBookingHours: 3},
			items: []service.ItemRequest{{DishID: "d-1", Quantity: 1}},
			expected: domain.Quote{
				Items:       []domain.LineItem{{DishID: "d-1", Quantity: 1, Price: 200}},
				DishesTotal: 200, ChefFee: 300, PlatformFee: 10, Taxes: 90, TotalAmount: 600,
			},
		},
		{
			name:          "unknown_dish",
			chef:          chef,
			items:         []service.ItemRequest{{DishID: "d-404", Quantity: 1}},
			expectedKind:  apperr.KindNotFound,
			expectedError: "Dish not found: d-404",
		},
		{
			name:          "dish_of_another_chef",
			chef:          chef,
			items:         []service.ItemRequest{{DishID: "d-9", Quantity: 1}},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "Dish Risotto does not belong to this chef",
		},
		{
			name:          "unavailable_dish",
			chef:          chef,
			items:         []service.ItemRequest{{DishID: "d-1", Quantity: 1}, {DishID: "d-3", Quantity: 1}},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "Dish Biryani is not available",
		},
		{
			name:         "negative_quantity",
			chef:         chef,
			items:        []service.ItemRequest{{DishID: "d-1", Quantity: -1}},
			expectedKind: apperr.KindBadRequest,
		},
		{
			name:         "no_items",
			chef:         chef,
			expectedKind: apperr.KindBadRequest,
		},
		{
			name:          "quantity_above_cap",
			chef:          chef,
			items:         []service.ItemRequest{{DishID: "d-1", Quantity: math.MaxInt64 / 100}},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "Quantity for dish Paneer Tikka must be at most 1000",
		},
		{
			name:  "quantity_at_cap",
			chef:  chef,
			items: []service.ItemRequest{{DishID: "d-1", Quantity: service.MaxQuantity}},
			expected: domain.Quote{
				Items:       []domain.LineItem{{DishID: "d-1", Quantity: 1000, Price: 200}},
				DishesTotal: 200000, ChefFee: 1000, PlatformFee: 10000, Taxes: 36180, TotalAmount: 247180,
			},
		},
		{
			name:          "line_overflows",
			chef:          chef,
			items:         []service.ItemRequest{{DishID: "d-$", Quantity: 2}},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "Booking total is too large",
		},
		{
			name:          "chef_fee_overflows",
			chef:          &domain.ChefProfile{ID: "chef-1", PricePerHour: math.MaxInt64 / 2},
			items:         []service.ItemRequest{{DishID: "d-1", Quantity: 1}},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "Booking total is too large",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			quote, err := service.PriceBooking(testCase.chef, testCase.items, dishes, service.DefaultPricing)
			if testCase.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, testCase.expectedKind, apperr.KindOf(err))
				if testCase.expectedError != "" {
					assert.Equal(t, testCase.expectedError, apperr.Message(err))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, quote)
		})
	}
}

func TestPriceBooking_TotalIsSumOfParts(t *testing.T) {
	chef := &domain.ChefProfile{ID: "chef-1", PricePerHour: 333, MinimumBookingHours: 5}
	dishes := map[string]domain.Dish{
		"d-1": {ID: "d-1", ChefID: "chef-1", Name: "A", Price: 199, IsAvailable: true},
		"d-2": {ID: "d-2", ChefID: "chef-1", Name: "B", Price: 1, IsAvailable: true},
	}
	policy := service.PricingPolicy{PlatformFeeBPS: 725, TaxBPS: 1250}

	for quantity := 1; quantity <= 25; quantity++ {
		quote, err := service.PriceBooking(chef, []service.ItemRequest{
			{DishID: "d-1", Quantity: quantity},
			{DishID: "d-2", Quantity: 2 * quantity},
		}, dishes, policy)
		require.NoError(t, err)
		assert.Equal(t, quote.DishesTotal+quote.ChefFee+quote.PlatformFee+quote.Taxes, quote.TotalAmount)
		assert.Equal(t, int64(199*quantity+2*quantity), quote.DishesTotal)
	}
}

func TestPriceBooking_LargeAmountsStayExact(t *testing.T) {
	chef := &domain.ChefProfile{ID: "chef-1", PricePerHour: 500}
	dishes := map[string]domain.Dish{
		"d-1": {ID: "d-1", ChefID: "chef-1", Name: "Platter", Price: 900_000_000_000, IsAvailable: true},
	}

	quote, err := service.PriceBooking(chef, []service.ItemRequest{{DishID: "d-1", Quantity: service.MaxQuantity}}, dishes, service.DefaultPricing)
	require.NoError(t, err)

	assert.Equal(t, int64(900_000_000_000_000), quote.DishesTotal)
	assert.Equal(t, int64(45_000_000_000_000), quote.PlatformFee)
	assert.Equal(t, int64(162_000_000_000_180), quote.Taxes)
	assert.Equal(t, quote.DishesTotal+quote.ChefFee+quote.PlatformFee+quote.Taxes, quote.TotalAmount)
	assert.Positive(t, quote.TotalAmount)
}

func TestPriceBooking_InvalidPolicy(t *testing.T) {
	chef := &domain.ChefProfile{ID: "chef-1", PricePerHour: 500}
	dishes := map[string]domain.Dish{"d-1": {ID: "d-1", ChefID: "chef-1", Name: "A", Price: 100, IsAvailable: true}}

	_, err := service.PriceBooking(chef, []service.ItemRequest{{DishID: "d-1"}}, dishes, service.PricingPolicy{TaxBPS: service.MaxBPS + 1})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
