package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"amazonas-backend/models"
	"amazonas-backend/store"
	"amazonas-backend/utils"
)

var (
	ErrBookingNotFound      = errors.New("booking_not_found")
	ErrAmountOutOfRange     = errors.New("amount_out_of_range")
	ErrMissingTransactionID = errors.New("missing_transaction_id")
	ErrInvalidSignature     = errors.New("invalid_signature")
	ErrIllegalTransition    = errors.New("illegal_status_transition")
)

// Amount sanity band in COP cents: 10 COP up to 100 million COP. The original
// site's bound was documented loosely; typical bookings (150,000 COP) must
// pass, so the ceiling sits well above them.
const (
	MinAmountCents int64 = 1_000
	MaxAmountCents int64 = 10_000_000_000
)

// Mailer delivers booking confirmations. utils.SMTPMailer is the production
// implementation; tests plug a fake.
type Mailer interface {
	SendConfirmation(d utils.ConfirmationEmail) (string, error)
}

// BookingService owns the booking lifecycle: creation with payment-link
// setup, and status reconciliation from the gateway (poll and webhook).
type BookingService struct {
	Store    store.BookingStore
	Catalog  store.CatalogStore
	Payments *PaymentService
	Mailer   Mailer
	SiteURL  string
	// EventsSecret enables webhook checksum verification when non-empty.
	EventsSecret string
}

func NewBookingService(st store.BookingStore, catalog store.CatalogStore, payments *PaymentService, mailer Mailer) *BookingService {
	return &BookingService{
		Store:        st,
		Catalog:      catalog,
		Payments:     payments,
		Mailer:       mailer,
		SiteURL:      payments.Cfg.SiteURL,
		EventsSecret: payments.Cfg.WompiEventsSecret,
	}
}

// AccommodationBookingInput is the client-submitted accommodation intent.
type AccommodationBookingInput struct {
	GuestName       string
	GuestEmail      string
	GuestCount      int
	CheckInDate     string
	CheckOutDate    string
	AccommodationID string
	TotalPrice      string
	PaymentMethod   string
}

// TourBookingInput is the client-submitted tour intent.
type TourBookingInput struct {
	GuestName  string
	GuestEmail string
	GuestCount int
	TourDate   string
	TourID     string
	TotalPrice string
}

// CreateAccommodationBooking runs either the cash path (immediate confirm)
// or the card path (persist pending, create payment link). On a gateway
// rejection the returned booking is already marked payment_failed.
func (s *BookingService) CreateAccommodationBooking(in AccommodationBookingInput) (*models.Booking, error) {
	booking := &models.Booking{
		ID:              utils.NewID(),
		Reference:       utils.NewBookingReference(),
		AccommodationID: &in.AccommodationID,
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestCount:      in.GuestCount,
		CheckInDate:     in.CheckInDate,
		CheckOutDate:    in.CheckOutDate,
		TotalPrice:      in.TotalPrice,
		PaymentMethod:   in.PaymentMethod,
	}

	if in.PaymentMethod == models.PaymentMethodCash {
		return s.createCashBooking(booking)
	}
	booking.PaymentMethod = models.PaymentMethodCard

	roomLabel := ""
	if acc, err := s.Catalog.GetAccommodation(in.AccommodationID); err == nil {
		roomLabel = acc.Name
	}

	description := fmt.Sprintf("Reserva de alojamiento para %s, %s a %s, %d huéspedes",
		in.GuestName, in.CheckInDate, in.CheckOutDate, in.GuestCount)
	if roomLabel != "" {
		description = fmt.Sprintf("%s (%s)", description, roomLabel)
	}

	return s.createCardBooking(booking, description, true)
}

// CreateTourBooking is the card-only tour path. The catalog lookup enriches
// the payment description with the tour name; a miss is logged, not fatal.
func (s *BookingService) CreateTourBooking(in TourBookingInput) (*models.Booking, error) {
	booking := &models.Booking{
		ID:            utils.NewID(),
		Reference:     utils.NewBookingReference(),
		TourID:        &in.TourID,
		GuestName:     in.GuestName,
		GuestEmail:    in.GuestEmail,
		GuestCount:    in.GuestCount,
		TourDate:      in.TourDate,
		TotalPrice:    in.TotalPrice,
		PaymentMethod: models.PaymentMethodCard,
	}

	tourName := "Tour"
	if tour, err := s.Catalog.GetTour(in.TourID); err == nil {
		tourName = tour.Name
	} else {
		log.Printf("CreateTourBooking: tour %s not found in catalog: %v", in.TourID, err)
	}

	description := fmt.Sprintf("%s para %s, %s, %d personas",
		tourName, in.GuestName, in.TourDate, in.GuestCount)

	return s.createCardBooking(booking, description, false)
}

func (s *BookingService) createCashBooking(booking *models.Booking) (*models.Booking, error) {
	booking.Status = models.StatusConfirmed
	if err := s.Store.Create(booking); err != nil {
		return nil, err
	}
	s.notifyConfirmed(booking)
	return booking, nil
}

func (s *BookingService) createCardBooking(booking *models.Booking, description string, withWebhook bool) (*models.Booking, error) {
	if s.Payments.Cfg.WompiPrivateKey == "" {
		return nil, ErrGatewayNotConfigured
	}

	cents, err := amountInCents(booking.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAmountOutOfRange, err)
	}
	if cents < MinAmountCents || cents > MaxAmountCents {
		return nil, ErrAmountOutOfRange
	}

	booking.Status = models.StatusPaymentPending
	if err := s.Store.Create(booking); err != nil {
		return nil, err
	}

	req := PaymentLinkRequest{
		Name:          fmt.Sprintf("Reserva %s", booking.Reference),
		Description:   description,
		SingleUse:     true,
		Currency:      "COP",
		AmountInCents: cents,
		RedirectURL:   s.successRedirectURL(booking),
	}
	if withWebhook {
		req.WebhookURL = strings.TrimRight(s.SiteURL, "/") + "/api/wompi/webhook"
	}

	link, err := s.Payments.CreatePaymentLink(req)
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			booking.Status = models.StatusPaymentFailed
			if updErr := s.Store.Update(booking); updErr != nil {
				log.Printf("createCardBooking: failed to mark booking %s payment_failed: %v", booking.Reference, updErr)
			}
			return booking, err
		}
		return booking, err
	}

	booking.WompiPaymentID = link.ID
	booking.CheckoutURL = link.CheckoutURL
	if err := s.Store.Update(booking); err != nil {
		return booking, err
	}
	return booking, nil
}

func (s *BookingService) successRedirectURL(b *models.Booking) string {
	q := url.Values{}
	q.Set("reference", b.Reference)
	q.Set("name", b.GuestName)
	q.Set("email", b.GuestEmail)
	q.Set("guests", strconv.Itoa(b.GuestCount))
	q.Set("amount", b.TotalPrice)
	if b.TourID != nil {
		q.Set("type", "tour")
		q.Set("tourDate", b.TourDate)
	} else {
		q.Set("type", "accommodation")
		q.Set("checkIn", b.CheckInDate)
		q.Set("checkOut", b.CheckOutDate)
	}
	return strings.TrimRight(s.SiteURL, "/") + "/booking-success?" + q.Encode()
}

// CheckPaymentStatus is the polling trigger: look the booking up by its
// reference, ask the gateway for the current transaction status when the
// booking has gateway correlation, and reconcile.
func (s *BookingService) CheckPaymentStatus(reference string) (*models.Booking, error) {
	booking, err := s.Store.GetByReference(reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.WompiPaymentID == "" || s.Payments.Cfg.WompiPublicKey == "" {
		return booking, nil
	}

	tx, err := s.Payments.GetTransaction(booking.WompiPaymentID)
	if err != nil {
		return booking, err
	}

	return s.applyGatewayStatus(booking, tx.Status, tx.Raw)
}

// WebhookData is the transaction object inside a webhook delivery. The raw
// JSON is retained verbatim for opaque storage on the booking.
type WebhookData struct {
	ID     string
	Status string
	Raw    json.RawMessage
}

func (d *WebhookData) UnmarshalJSON(b []byte) error {
	var fields struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	d.ID = fields.ID
	d.Status = fields.Status
	d.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// WebhookSignature is the optional integrity checksum on a delivery.
type WebhookSignature struct {
	Checksum string `json:"checksum"`
}

// WebhookEvent is an asynchronous delivery from the gateway.
type WebhookEvent struct {
	Event     string            `json:"event"`
	Data      WebhookData       `json:"data"`
	Timestamp int64             `json:"timestamp"`
	Signature *WebhookSignature `json:"signature"`
}

// HandleWebhook is the asynchronous trigger. Redeliveries re-apply the same
// state (harmless) but notify at most once: the confirmation email fires only
// on the edge into confirmed.
func (s *BookingService) HandleWebhook(ev WebhookEvent) (*models.Booking, error) {
	if ev.Data.ID == "" {
		return nil, ErrMissingTransactionID
	}

	if s.EventsSecret != "" {
		if !s.verifySignature(ev) {
			return nil, ErrInvalidSignature
		}
	}

	booking, err := s.Store.GetByWompiPaymentID(ev.Data.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("HandleWebhook: no booking for gateway transaction %s", ev.Data.ID)
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return s.applyGatewayStatus(booking, ev.Data.Status, ev.Data.Raw)
}

func (s *BookingService) verifySignature(ev WebhookEvent) bool {
	if ev.Signature == nil || ev.Signature.Checksum == "" {
		return false
	}
	seed := ev.Data.ID + ev.Data.Status + strconv.FormatInt(ev.Timestamp, 10) + s.EventsSecret
	sum := sha256.Sum256([]byte(seed))
	return strings.EqualFold(hex.EncodeToString(sum[:]), ev.Signature.Checksum)
}

// applyGatewayStatus maps the gateway status, validates the transition and
// persists it with a compare-and-swap; a lost race is retried once against a
// fresh read. The confirmation email is edge-triggered on entry to confirmed.
func (s *BookingService) applyGatewayStatus(booking *models.Booking, gatewayStatus string, raw json.RawMessage) (*models.Booking, error) {
	for attempt := 0; ; attempt++ {
		newStatus := StatusFromGateway(gatewayStatus)
		if !ValidTransition(booking.Status, newStatus) {
			return booking, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, booking.Status, newStatus)
		}

		wasConfirmed := booking.Status == models.StatusConfirmed
		booking.Status = newStatus
		booking.PaymentStatus = gatewayStatus
		if len(raw) > 0 {
			booking.PaymentData = datatypes.JSON(raw)
		}

		err := s.Store.Update(booking)
		if err == nil {
			if newStatus == models.StatusConfirmed && !wasConfirmed {
				s.notifyConfirmed(booking)
			}
			return booking, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) || attempt >= 1 {
			return booking, err
		}

		fresh, readErr := s.Store.GetByID(booking.ID)
		if readErr != nil {
			return booking, err
		}
		booking = fresh
	}
}

// notifyConfirmed attempts the confirmation email. Failure is logged and
// swallowed; the status change never rolls back and no retry is scheduled.
func (s *BookingService) notifyConfirmed(b *models.Booking) {
	roomLabel := ""
	if b.AccommodationID != nil {
		if acc, err := s.Catalog.GetAccommodation(*b.AccommodationID); err == nil {
			roomLabel = acc.Name
		}
	} else if b.TourID != nil {
		if tour, err := s.Catalog.GetTour(*b.TourID); err == nil {
			roomLabel = tour.Name
		}
	}

	if _, err := s.Mailer.SendConfirmation(utils.ConfirmationEmail{
		Reference: b.Reference,
		Name:      b.GuestName,
		Email:     b.GuestEmail,
		CheckIn:   b.CheckInDate,
		CheckOut:  b.CheckOutDate,
		TourDate:  b.TourDate,
		Guests:    b.GuestCount,
		Room:      roomLabel,
		Amount:    b.TotalPrice,
	}); err != nil {
		log.Printf("confirmation email failed for booking %s: %v", b.Reference, err)
	}
}

func amountInCents(totalPrice string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(totalPrice), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid total price %q", totalPrice)
	}
	if v <= 0 {
		return 0, fmt.Errorf("total price must be positive")
	}
	return int64(math.Round(v * 100)), nil
}
