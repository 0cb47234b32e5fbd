package domain

import "time"

// Patch types carry only the fields a caller wants to change. Fields returns
// them keyed by their stored column name; Apply mutates an in-memory copy.

type AccountPatch struct {
	PasswordHash     *string
	RefreshTokenHash *string
	IsVerified       *bool
}

func (p AccountPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.PasswordHash != nil {
		f["password_hash"] = *p.PasswordHash
	}
	if p.RefreshTokenHash != nil {
		f["refresh_token_hash"] = *p.RefreshTokenHash
	}
	if p.IsVerified != nil {
		f["is_verified"] = *p.IsVerified
	}
	return f
}

func (p AccountPatch) Apply(a *Account) {
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.RefreshTokenHash != nil {
		a.RefreshTokenHash = *p.RefreshTokenHash
	}
	if p.IsVerified != nil {
		a.IsVerified = *p.IsVerified
	}
}

type UserProfilePatch struct {
	FullName *string  `json:"full_name"`
	Phone    *string  `json:"phone"`
	Avatar   *string  `json:"-"`
	Address  *Address `json:"address"`
}

func (p UserProfilePatch) Fields() map[string]any {
	f := map[string]any{}
	if p.FullName != nil {
		f["full_name"] = *p.FullName
	}
	if p.Phone != nil {
		f["phone"] = *p.Phone
	}
	if p.Avatar != nil {
		f["avatar"] = *p.Avatar
	}
	if p.Address != nil {
		f["address"] = *p.Address
	}
	return f
}

func (p UserProfilePatch) Apply(u *UserProfile) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}

type ChefPatch struct {
	FullName            *string            `json:"full_name"`
	Phone               *string            `json:"phone"`
	Avatar              *string            `json:"-"`
	CoverImage          *string            `json:"-"`
	Bio                 *string            `json:"bio"`
	Specialization      *[]string          `json:"specialization"`
	ExperienceYears     *int               `json:"experience_years"`
	ServiceLocations    *[]ServiceArea     `json:"service_locations"`
	PricePerHour        *int64             `json:"price_per_hour"`
	MinimumBookingHours *int               `json:"minimum_booking_hours"`
	IsAvailable         *bool              `json:"-"`
	IsApproved          *bool              `json:"-"`
	AccountStatus       *ChefAccountStatus `json:"-"`
}

func (p ChefPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.FullName != nil {
		f["full_name"] = *p.FullName
	}
	if p.Phone != nil {
		f["phone"] = *p.Phone
	}
	if p.Avatar != nil {
		f["avatar"] = *p.Avatar
	}
	if p.CoverImage != nil {
		f["cover_image"] = *p.CoverImage
	}
	if p.Bio != nil {
		f["bio"] = *p.Bio
	}
	if p.Specialization != nil {
		f["specialization"] = *p.Specialization
	}
	if p.ExperienceYears != nil {
		f["experience_years"] = *p.ExperienceYears
	}
	if p.ServiceLocations != nil {
		f["service_locations"] = *p.ServiceLocations
	}
	if p.PricePerHour != nil {
		f["price_per_hour"] = *p.PricePerHour
	}
	if p.MinimumBookingHours != nil {
		f["minimum_booking_hours"] = *p.MinimumBookingHours
	}
	if p.IsAvailable != nil {
		f["is_available"] = *p.IsAvailable
	}
	if p.IsApproved != nil {
		f["is_approved"] = *p.IsApproved
	}
	if p.AccountStatus != nil {
		f["account_status"] = *p.AccountStatus
	}
	return f
}

func (p ChefPatch) Apply(c *ChefProfile) {
	if p.FullName != nil {
		c.FullName = *p.FullName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Avatar != nil {
		c.Avatar = *p.Avatar
	}
	if p.CoverImage != nil {
		c.CoverImage = *p.CoverImage
	}
	if p.Bio != nil {
		c.Bio = *p.Bio
	}
	if p.Specialization != nil {
		c.Specialization = append([]string(nil), (*p.Specialization)...)
	}
	if p.ExperienceYears != nil {
		c.ExperienceYears = *p.ExperienceYears
	}
	if p.ServiceLocations != nil {
		c.ServiceLocations = append([]ServiceArea(nil), (*p.ServiceLocations)...)
	}
	if p.PricePerHour != nil {
		c.PricePerHour = *p.PricePerHour
	}
	if p.MinimumBookingHours != nil {
		c.MinimumBookingHours = *p.MinimumBookingHours
	}
	if p.IsAvailable != nil {
		c.IsAvailable = *p.IsAvailable
	}
	if p.IsApproved != nil {
		c.IsApproved = *p.IsApproved
	}
	if p.AccountStatus != nil {
		c.AccountStatus = *p.AccountStatus
	}
}

// ChefCounters are added to the chef's stored counters.
type ChefCounters struct {
	TotalBookings     int
	CompletedBookings int
}

func (c ChefCounters) Fields() map[string]any {
	f := map[string]any{}
	if c.TotalBookings != 0 {
		f["total_bookings"] = c.TotalBookings
	}
	if c.CompletedBookings != 0 {
		f["completed_bookings"] = c.CompletedBookings
	}
	return f
}

type DishPatch struct {
	Name            *string      `json:"name"`
	Description     *string      `json:"description"`
	Category        *string      `json:"category"`
	Cuisine         *string      `json:"cuisine"`
	Images          *[]string    `json:"-"`
	PreparationTime *int         `json:"preparation_time"`
	Servings        *int         `json:"servings"`
	Price           *int64       `json:"price"`
	Dietary         *DietaryInfo `json:"dietary"`
	Tags            *[]string    `json:"tags"`
	IsAvailable     *bool        `json:"is_available"`
}

func (p DishPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.Cuisine != nil {
		f["cuisine"] = *p.Cuisine
	}
	if p.Images != nil {
		f["images"] = *p.Images
	}
	if p.PreparationTime != nil {
		f["preparation_time"] = *p.PreparationTime
	}
	if p.Servings != nil {
		f["servings"] = *p.Servings
	}
	if p.Price != nil {
		f["price"] = *p.Price
	}
	if p.Dietary != nil {
		f["dietary"] = *p.Dietary
	}
	if p.Tags != nil {
		f["tags"] = *p.Tags
	}
	if p.IsAvailable != nil {
		f["is_available"] = *p.IsAvailable
	}
	return f
}

func (p DishPatch) Apply(d *Dish) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Cuisine != nil {
		d.Cuisine = *p.Cuisine
	}
	if p.Images != nil {
		d.Images = append([]string(nil), (*p.Images)...)
	}
	if p.PreparationTime != nil {
		d.PreparationTime = *p.PreparationTime
	}
	if p.Servings != nil {
		d.Servings = *p.Servings
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Dietary != nil {
		d.Dietary = *p.Dietary
	}
	if p.Tags != nil {
		d.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.IsAvailable != nil {
		d.IsAvailable = *p.IsAvailable
	}
}

type BookingPatch struct {
	BookingStatus      *BookingStatus
	PaymentStatus      *PaymentStatus
	CancellationReason *string
	CancelledBy        *Actor
	CancelledAt        *time.Time
	CompletedAt        *time.Time
}

func (p BookingPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.BookingStatus != nil {
		f["booking_status"] = *p.BookingStatus
	}
	if p.PaymentStatus != nil {
		f["payment_status"] = *p.PaymentStatus
	}
	if p.CancellationReason != nil {
		f["cancellation_reason"] = *p.CancellationReason
	}
	if p.CancelledBy != nil {
		f["cancelled_by"] = *p.CancelledBy
	}
	if p.CancelledAt != nil {
		f["cancelled_at"] = *p.CancelledAt
	}
	if p.CompletedAt != nil {
		f["completed_at"] = *p.CompletedAt
	}
	return f
}

func (p BookingPatch) Apply(b *Booking) {
	if p.BookingStatus != nil {
		b.BookingStatus = *p.BookingStatus
	}
	if p.PaymentStatus != nil {
		b.PaymentStatus = *p.PaymentStatus
	}
	if p.CancellationReason != nil {
		b.CancellationReason = *p.CancellationReason
	}
	if p.CancelledBy != nil {
		b.CancelledBy = *p.CancelledBy
	}
	if p.CancelledAt != nil {
		t := *p.CancelledAt
		b.CancelledAt = &t
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		b.CompletedAt = &t
	}
}
