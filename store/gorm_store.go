package store

import (
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"amazonas-backend/models"
)

// GormStore is the MySQL-backed implementation of BookingStore and
// CatalogStore.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Create(b *models.Booking) error {
	if err := s.DB.Create(b).Error; err != nil {
		if isDuplicateError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *GormStore) GetByID(id string) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	return &b, nil
}

func (s *GormStore) GetByReference(reference string) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Where("reference = ?", reference).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking by reference %s: %w", reference, err)
	}
	return &b, nil
}

func (s *GormStore) GetByWompiPaymentID(paymentID string) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Where("wompi_payment_id = ?", paymentID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking by payment id %s: %w", paymentID, err)
	}
	return &b, nil
}

// Update writes the mutable payment fields guarded by the version counter.
// RowsAffected == 0 means the row was updated concurrently (or deleted);
// callers re-read and retry.
func (s *GormStore) Update(b *models.Booking) error {
	res := s.DB.Model(&models.Booking{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]interface{}{
			"status":           b.Status,
			"payment_status":   b.PaymentStatus,
			"payment_data":     b.PaymentData,
			"wompi_payment_id": b.WompiPaymentID,
			"checkout_url":     b.CheckoutURL,
			"version":          b.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update booking %s: %w", b.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	b.Version++
	return nil
}

func (s *GormStore) List() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

func (s *GormStore) ListTours(f TourFilters) ([]models.Tour, error) {
	q := s.DB.Model(&models.Tour{})
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var tours []models.Tour
	if err := q.Order("name").Find(&tours).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve tours: %w", err)
	}
	return tours, nil
}

func (s *GormStore) GetTour(id string) (*models.Tour, error) {
	var t models.Tour
	if err := s.DB.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load tour %s: %w", id, err)
	}
	return &t, nil
}

func (s *GormStore) ListAccommodations() ([]models.Accommodation, error) {
	var list []models.Accommodation
	if err := s.DB.Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve accommodations: %w", err)
	}
	return list, nil
}

func (s *GormStore) GetAccommodation(id string) (*models.Accommodation, error) {
	var a models.Accommodation
	if err := s.DB.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load accommodation %s: %w", id, err)
	}
	return &a, nil
}

func isDuplicateError(err error) bool {
	var merr *mysqldrv.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique")
}
