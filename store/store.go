// store defines the persistence interfaces for the booking flow. Handlers
// receive a BookingStore explicitly; the GORM implementation backs production
// and MemoryStore backs tests.
package store

import (
	"errors"

	"amazonas-backend/models"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrDuplicate       = errors.New("duplicate")
	ErrVersionConflict = errors.New("version_conflict")
)

// BookingStore persists bookings. Update is compare-and-swap on the booking's
// version counter and returns ErrVersionConflict when the stored version no
// longer matches; callers re-read and retry.
type BookingStore interface {
	Create(b *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByReference(reference string) (*models.Booking, error)
	GetByWompiPaymentID(paymentID string) (*models.Booking, error)
	Update(b *models.Booking) error
	List() ([]models.Booking, error)
}

// TourFilters narrows ListTours; empty fields match everything.
type TourFilters struct {
	Location string
	Category string
}

// CatalogStore is the read-only tour/accommodation catalog.
type CatalogStore interface {
	ListTours(f TourFilters) ([]models.Tour, error)
	GetTour(id string) (*models.Tour, error)
	ListAccommodations() ([]models.Accommodation, error)
	GetAccommodation(id string) (*models.Accommodation, error)
}
