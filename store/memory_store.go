package store

import (
	"sort"
	"sync"

	"amazonas-backend/models"
)

// MemoryStore keeps bookings and the catalog in process-local maps. It backs
// tests and mirrors the storage semantics of the original site (everything
// vanishes on restart). All methods copy on the way in and out so callers
// never share memory with the stored records.
type MemoryStore struct {
	mu             sync.RWMutex
	bookings       map[string]models.Booking
	tours          map[string]models.Tour
	accommodations map[string]models.Accommodation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:       make(map[string]models.Booking),
		tours:          make(map[string]models.Tour),
		accommodations: make(map[string]models.Accommodation),
	}
}

func (s *MemoryStore) Create(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; ok {
		return ErrDuplicate
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *MemoryStore) GetByID(id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) GetByReference(reference string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.Reference == reference {
			bc := b
			return &bc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetByWompiPaymentID(paymentID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.WompiPaymentID != "" && b.WompiPaymentID == paymentID {
			bc := b
			return &bc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Update(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.bookings[b.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != b.Version {
		return ErrVersionConflict
	}
	b.Version++
	s.bookings[b.ID] = *b
	return nil
}

func (s *MemoryStore) List() ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AddTour and AddAccommodation seed the in-memory catalog.
func (s *MemoryStore) AddTour(t models.Tour) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours[t.ID] = t
}

func (s *MemoryStore) AddAccommodation(a models.Accommodation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accommodations[a.ID] = a
}

func (s *MemoryStore) ListTours(f TourFilters) ([]models.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tour, 0, len(s.tours))
	for _, t := range s.tours {
		if f.Location != "" && t.Location != f.Location {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetTour(id string) (*models.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tours[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) ListAccommodations() ([]models.Accommodation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Accommodation, 0, len(s.accommodations))
	for _, a := range s.accommodations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetAccommodation(id string) (*models.Accommodation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accommodations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}
