package service

import (
	"math"

	"github.com/aashikantkumar/cheifidea/config"
	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
)

const (
	bpsDenominator = 10000

	// MaxBPS is the highest fee rate a policy may carry (100%).
	MaxBPS = bpsDenominator

	// MaxQuantity caps the portions of one dish in a booking.
	MaxQuantity = 1000

	// maxAmount is the largest base a fee can be computed on without
	// amount*bps overflowing int64.
	maxAmount = (math.MaxInt64 - bpsDenominator) / MaxBPS
)

var errBookingTooLarge = apperr.BadRequest("Booking total is too large")

// PricingPolicy holds the fee rates in basis points.
type PricingPolicy struct {
	PlatformFeeBPS int64
	TaxBPS         int64
}

var DefaultPricing = PricingPolicy{PlatformFeeBPS: 500, TaxBPS: 1800}

func NewPricingPolicy(cfg config.PricingConfig) PricingPolicy {
	return PricingPolicy{PlatformFeeBPS: cfg.PlatformFeeBPS, TaxBPS: cfg.TaxBPS}
}

// ItemRequest is one requested dish line of a booking.
type ItemRequest struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

// PriceBooking validates the requested items against the loaded dishes and
// returns the booking's price breakdown. dishes is keyed by dish id.
func PriceBooking(chef *domain.ChefProfile, items []ItemRequest, dishes map[string]domain.Dish, policy PricingPolicy) (domain.Quote, error) {
	if len(items) == 0 {
		return domain.Quote{}, apperr.BadRequest("At least one dish is required")
	}

	quote := domain.Quote{Items: make([]domain.LineItem, 0, len(items))}
	for _, item := range items {
		dish, ok := dishes[item.DishID]
		if !ok {
			return domain.Quote{}, apperr.NotFound("Dish not found: %s", item.DishID)
		}
		if dish.ChefID != chef.ID {
			return domain.Quote{}, apperr.BadRequest("Dish %s does not belong to this chef", dish.Name)
		}
		if !dish.IsAvailable {
			return domain.Quote{}, apperr.BadRequest("Dish %s is not available", dish.Name)
		}

		quantity := item.Quantity
		switch {
		case quantity == 0:
			quantity = 1
		case quantity < 0:
			return domain.Quote{}, apperr.BadRequest("Quantity for dish %s must be at least 1", dish.Name)
		case quantity > MaxQuantity:
			return domain.Quote{}, apperr.BadRequest("Quantity for dish %s must be at most %d", dish.Name, MaxQuantity)
		}

		line, ok := mulAmount(dish.Price, int64(quantity))
		if !ok || line > maxAmount-quote.DishesTotal {
			return domain.Quote{}, errBookingTooLarge
		}
		quote.Items = append(quote.Items, domain.LineItem{DishID: dish.ID, Quantity: quantity, Price: dish.Price})
		quote.DishesTotal += line
	}

	chefFee, ok := mulAmount(chef.PricePerHour, int64(chef.BookingHours()))
	if !ok || chefFee > maxAmount-quote.DishesTotal {
		return domain.Quote{}, errBookingTooLarge
	}
	if policy.PlatformFeeBPS < 0 || policy.PlatformFeeBPS > MaxBPS || policy.TaxBPS < 0 || policy.TaxBPS > MaxBPS {
		return domain.Quote{}, apperr.Internal("Invalid pricing policy", nil)
	}
	quote.ChefFee = chefFee
	quote.PlatformFee = roundHalfUp(quote.DishesTotal, policy.PlatformFeeBPS)
	quote.Taxes = roundHalfUp(quote.DishesTotal+quote.ChefFee, policy.TaxBPS)
	quote.TotalAmount = quote.DishesTotal + quote.ChefFee + quote.PlatformFee + quote.Taxes
	return quote, nil
}

// mulAmount multiplies two non-negative amounts, reporting false when the
// product is negative or exceeds maxAmount.
func mulAmount(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > maxAmount/a {
		return 0, false
	}
	return a * b, true
}

// roundHalfUp returns amount*bps/10000 rounded to the nearest unit, halves up.
func roundHalfUp(amount, bps int64) int64 {
	return (amount*bps + bpsDenominator/2) / bpsDenominator
}
