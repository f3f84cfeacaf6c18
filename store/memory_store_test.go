package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amazonas-backend/models"
)

func TestMemoryStoreCreateAndLookups(t *testing.T) {
	s := NewMemoryStore()

	tourID := "tour-1"
	b := &models.Booking{
		ID:             "id-1",
		Reference:      "BK-1700000000000-ab12cd34",
		TourID:         &tourID,
		GuestName:      "Ana",
		Status:         models.StatusPaymentPending,
		WompiPaymentID: "tx_1",
	}
	require.NoError(t, s.Create(b))
	assert.ErrorIs(t, s.Create(b), ErrDuplicate)

	got, err := s.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.GuestName)

	got, err = s.GetByReference(b.Reference)
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	got, err = s.GetByWompiPaymentID("tx_1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	_, err = s.GetByReference("BK-does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetByWompiPaymentID("tx_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateIsCompareAndSwap(t *testing.T) {
	s := NewMemoryStore()

	b := &models.Booking{ID: "id-1", Reference: "BK-1", Status: models.StatusPaymentPending}
	require.NoError(t, s.Create(b))

	// winner updates from version 0
	first, err := s.GetByID("id-1")
	require.NoError(t, err)
	second, err := s.GetByID("id-1")
	require.NoError(t, err)

	first.Status = models.StatusConfirmed
	require.NoError(t, s.Update(first))
	assert.Equal(t, int64(1), first.Version)

	// loser still holds version 0
	second.Status = models.StatusCancelled
	assert.ErrorIs(t, s.Update(second), ErrVersionConflict)

	got, err := s.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	// stored copies do not alias caller memory
	got.Status = "mutated"
	again, err := s.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, again.Status)
}

func TestMemoryStoreCatalogFilters(t *testing.T) {
	s := NewMemoryStore()
	s.AddTour(models.Tour{ID: "t1", Name: "Delfines", Location: "puerto-narino", Category: "naturaleza"})
	s.AddTour(models.Tour{ID: "t2", Name: "Micos", Location: "leticia", Category: "aventura"})
	s.AddTour(models.Tour{ID: "t3", Name: "Mocagua", Location: "mocagua", Category: "cultura"})

	all, err := s.ListTours(TourFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byLocation, err := s.ListTours(TourFilters{Location: "leticia"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Micos", byLocation[0].Name)

	byCategory, err := s.ListTours(TourFilters{Category: "cultura"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Mocagua", byCategory[0].Name)

	_, err = s.GetTour("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
