package models

import (
	"time"

	"gorm.io/datatypes"
)

// Booking statuses. Status only ever moves forward; confirmed, cancelled and
// payment_failed are terminal.
const (
	StatusPending        = "pending"
	StatusPaymentPending = "payment_pending"
	StatusConfirmed      = "confirmed"
	StatusCancelled      = "cancelled"
	StatusPaymentFailed  = "payment_failed"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

// Booking is a guest's reservation against either an accommodation or a tour.
// Exactly one of AccommodationID / TourID is set. Dates are kept as the
// plain "2006-01-02" strings the client submits; they are never mutated.
type Booking struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Reference string `gorm:"column:reference;size:64;uniqueIndex" json:"reference"`

	AccommodationID *string `gorm:"column:accommodation_id;size:36;index" json:"accommodationId,omitempty"`
	TourID          *string `gorm:"column:tour_id;size:36;index" json:"tourId,omitempty"`

	GuestName  string `gorm:"column:guest_name;size:255" json:"guestName"`
	GuestEmail string `gorm:"column:guest_email;size:255" json:"guestEmail"`
	GuestCount int    `gorm:"column:guest_count" json:"guestCount"`

	CheckInDate  string `gorm:"column:check_in_date;size:32" json:"checkInDate,omitempty"`
	CheckOutDate string `gorm:"column:check_out_date;size:32" json:"checkOutDate,omitempty"`
	TourDate     string `gorm:"column:tour_date;size:32" json:"tourDate,omitempty"`

	TotalPrice    string `gorm:"column:total_price;size:32" json:"totalPrice"`
	Status        string `gorm:"column:status;size:32;index" json:"status"`
	PaymentMethod string `gorm:"column:payment_method;size:16" json:"paymentMethod,omitempty"`

	// Gateway correlation, populated only for card bookings once the payment
	// link has been created.
	WompiPaymentID string         `gorm:"column:wompi_payment_id;size:64;index" json:"wompiPaymentId,omitempty"`
	CheckoutURL    string         `gorm:"column:checkout_url;size:512" json:"checkoutUrl,omitempty"`
	PaymentStatus  string         `gorm:"column:payment_status;size:32" json:"paymentStatus,omitempty"`
	PaymentData    datatypes.JSON `gorm:"column:payment_data" json:"paymentData,omitempty"`

	// Version is the optimistic-concurrency token; every successful store
	// update increments it.
	Version int64 `gorm:"column:version;default:0" json:"-"`
}

// IsTerminal reports whether status is one of the terminal booking states.
func IsTerminal(status string) bool {
	switch status {
	case StatusConfirmed, StatusCancelled, StatusPaymentFailed:
		return true
	}
	return false
}
