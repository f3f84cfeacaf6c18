package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amazonas-backend/config"
	"amazonas-backend/models"
	"amazonas-backend/store"
	"amazonas-backend/utils"
)

type fakeMailer struct {
	sent []utils.ConfirmationEmail
}

func (m *fakeMailer) SendConfirmation(d utils.ConfirmationEmail) (string, error) {
	m.sent = append(m.sent, d)
	return "msg-1", nil
}

// fakeGateway stands in for Wompi: fixed bodies per endpoint.
type fakeGateway struct {
	linkBody string
	txBody   string
}

func (g *fakeGateway) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/payment_links"):
			_, _ = w.Write([]byte(g.linkBody))
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/transactions/"):
			_, _ = w.Write([]byte(g.txBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestService(t *testing.T, gatewayURL, eventsSecret string) (*BookingService, *store.MemoryStore, *fakeMailer) {
	t.Helper()

	st := store.NewMemoryStore()
	st.AddTour(models.Tour{ID: "tour-1", Name: "Avistamiento de Delfines"})
	st.AddAccommodation(models.Accommodation{ID: "room-1", Name: "Cabana Rio"})

	cfg := config.App{
		SiteURL:           "http://localhost:5000",
		WompiAPIURL:       gatewayURL,
		WompiCheckoutBase: "https://checkout.wompi.co/l/",
		WompiPublicKey:    "pub_test",
		WompiPrivateKey:   "prv_test",
		WompiEventsSecret: eventsSecret,
	}

	mailer := &fakeMailer{}
	svc := NewBookingService(st, st, NewPaymentService(cfg), mailer)
	return svc, st, mailer
}

func accommodationInput(method string) AccommodationBookingInput {
	return AccommodationBookingInput{
		GuestName:       "Ana Torres",
		GuestEmail:      "ana@example.com",
		GuestCount:      2,
		CheckInDate:     "2026-01-15",
		CheckOutDate:    "2026-01-18",
		AccommodationID: "room-1",
		TotalPrice:      "150000",
		PaymentMethod:   method,
	}
}

func TestCashBookingConfirmedImmediately(t *testing.T) {
	svc, st, mailer := newTestService(t, "http://gateway.invalid", "")

	booking, err := svc.CreateAccommodationBooking(accommodationInput(models.PaymentMethodCash))
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.Equal(t, models.PaymentMethodCash, booking.PaymentMethod)
	assert.Empty(t, booking.WompiPaymentID)
	assert.True(t, strings.HasPrefix(booking.Reference, "BK-"))

	stored, err := st.GetByReference(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, booking.Reference, mailer.sent[0].Reference)
}

func TestCardBookingCreatesPaymentLink(t *testing.T) {
	gw := &fakeGateway{linkBody: `{"data":{"id":"tx_1"}}`}
	srv := gw.server()
	defer srv.Close()

	svc, st, mailer := newTestService(t, srv.URL, "")

	booking, err := svc.CreateAccommodationBooking(accommodationInput(""))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaymentPending, booking.Status)
	assert.Equal(t, "tx_1", booking.WompiPaymentID)
	assert.Equal(t, "https://checkout.wompi.co/l/tx_1", booking.CheckoutURL)
	assert.Empty(t, mailer.sent)

	stored, err := st.GetByWompiPaymentID("tx_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaymentPending, stored.Status)
	assert.Equal(t, booking.CheckoutURL, stored.CheckoutURL)
}

func TestCardBookingAmountOutOfRange(t *testing.T) {
	svc, st, _ := newTestService(t, "http://gateway.invalid", "")

	in := accommodationInput("")
	in.TotalPrice = "5" // 500 cents, below the floor

	_, err := svc.CreateAccommodationBooking(in)
	assert.ErrorIs(t, err, ErrAmountOutOfRange)

	// nothing persisted
	list, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCardBookingGatewayRejection(t *testing.T) {
	gw := &fakeGateway{linkBody: `{"error":{"type":"INPUT_VALIDATION_ERROR","message":"Invalid amount"}}`}
	srv := gw.server()
	defer srv.Close()

	svc, st, _ := newTestService(t, srv.URL, "")

	booking, err := svc.CreateAccommodationBooking(accommodationInput(""))
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "Invalid amount", gwErr.Message)

	require.NotNil(t, booking)
	assert.Equal(t, models.StatusPaymentFailed, booking.Status)

	stored, err := st.GetByReference(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaymentFailed, stored.Status)
}

func TestCardBookingWithoutPrivateKey(t *testing.T) {
	svc, st, _ := newTestService(t, "http://gateway.invalid", "")
	svc.Payments.Cfg.WompiPrivateKey = ""

	_, err := svc.CreateAccommodationBooking(accommodationInput(""))
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)

	list, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTourBookingEnrichesDescription(t *testing.T) {
	var gotBody PaymentLinkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"tx_tour"}}`))
	}))
	defer srv.Close()

	svc, _, _ := newTestService(t, srv.URL, "")

	booking, err := svc.CreateTourBooking(TourBookingInput{
		GuestName:  "Luis",
		GuestEmail: "luis@example.com",
		GuestCount: 4,
		TourDate:   "2026-02-01",
		TourID:     "tour-1",
		TotalPrice: "140000",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaymentPending, booking.Status)
	assert.Contains(t, gotBody.Description, "Avistamiento de Delfines")
	assert.Contains(t, gotBody.Name, booking.Reference)
	assert.True(t, gotBody.SingleUse)
	assert.Equal(t, "COP", gotBody.Currency)
	assert.Equal(t, int64(14000000), gotBody.AmountInCents)
	// tour path sends no webhook callback
	assert.Empty(t, gotBody.WebhookURL)
}

func TestTourBookingAmountBandApplies(t *testing.T) {
	svc, st, _ := newTestService(t, "http://gateway.invalid", "")

	_, err := svc.CreateTourBooking(TourBookingInput{
		GuestName:  "Luis",
		GuestEmail: "luis@example.com",
		GuestCount: 1,
		TourDate:   "2026-02-01",
		TourID:     "tour-1",
		TotalPrice: "2",
	})
	assert.ErrorIs(t, err, ErrAmountOutOfRange)

	list, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func createPendingCardBooking(t *testing.T, svc *BookingService) *models.Booking {
	t.Helper()
	gw := &fakeGateway{linkBody: `{"data":{"id":"tx_1"}}`}
	srv := gw.server()
	defer srv.Close()

	orig := svc.Payments.Cfg.WompiAPIURL
	svc.Payments.Cfg.WompiAPIURL = srv.URL
	defer func() { svc.Payments.Cfg.WompiAPIURL = orig }()

	booking, err := svc.CreateAccommodationBooking(accommodationInput(""))
	require.NoError(t, err)
	return booking
}

func TestWebhookApprovedConfirmsAndNotifiesOnce(t *testing.T) {
	svc, st, mailer := newTestService(t, "http://gateway.invalid", "")
	booking := createPendingCardBooking(t, svc)

	ev := WebhookEvent{
		Event: "transaction.updated",
		Data: WebhookData{
			ID:     "tx_1",
			Status: "APPROVED",
			Raw:    json.RawMessage(`{"id":"tx_1","status":"APPROVED"}`),
		},
	}

	updated, err := svc.HandleWebhook(ev)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, "APPROVED", updated.PaymentStatus)
	require.Len(t, mailer.sent, 1)

	// redelivery: same final state, no second email
	again, err := svc.HandleWebhook(ev)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, again.Status)
	assert.Equal(t, "APPROVED", again.PaymentStatus)
	assert.Len(t, mailer.sent, 1)

	stored, err := st.GetByReference(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.JSONEq(t, `{"id":"tx_1","status":"APPROVED"}`, string(stored.PaymentData))
}

func TestWebhookDeclinedCancels(t *testing.T) {
	svc, _, mailer := newTestService(t, "http://gateway.invalid", "")
	createPendingCardBooking(t, svc)

	updated, err := svc.HandleWebhook(WebhookEvent{
		Data: WebhookData{ID: "tx_1", Status: "DECLINED"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Empty(t, mailer.sent)
}

func TestWebhookRejectsIllegalTransition(t *testing.T) {
	svc, _, _ := newTestService(t, "http://gateway.invalid", "")
	createPendingCardBooking(t, svc)

	_, err := svc.HandleWebhook(WebhookEvent{
		Data: WebhookData{ID: "tx_1", Status: "APPROVED"},
	})
	require.NoError(t, err)

	// confirmed is terminal; a late DECLINED must not cancel the booking
	_, err = svc.HandleWebhook(WebhookEvent{
		Data: WebhookData{ID: "tx_1", Status: "DECLINED"},
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestWebhookMissingTransactionID(t *testing.T) {
	svc, _, _ := newTestService(t, "http://gateway.invalid", "")

	_, err := svc.HandleWebhook(WebhookEvent{Data: WebhookData{Status: "APPROVED"}})
	assert.ErrorIs(t, err, ErrMissingTransactionID)
}

func TestWebhookUnknownTransaction(t *testing.T) {
	svc, _, _ := newTestService(t, "http://gateway.invalid", "")

	_, err := svc.HandleWebhook(WebhookEvent{Data: WebhookData{ID: "tx_unknown", Status: "APPROVED"}})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestWebhookSignatureVerification(t *testing.T) {
	svc, _, _ := newTestService(t, "http://gateway.invalid", "sekret")
	createPendingCardBooking(t, svc)

	ev := WebhookEvent{
		Data:      WebhookData{ID: "tx_1", Status: "APPROVED"},
		Timestamp: 1700000000,
	}

	// missing / wrong checksum rejected
	_, err := svc.HandleWebhook(ev)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	ev.Signature = &WebhookSignature{Checksum: "deadbeef"}
	_, err = svc.HandleWebhook(ev)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// correct checksum accepted
	sum := sha256.Sum256([]byte("tx_1" + "APPROVED" + strconv.FormatInt(ev.Timestamp, 10) + "sekret"))
	ev.Signature = &WebhookSignature{Checksum: hex.EncodeToString(sum[:])}
	updated, err := svc.HandleWebhook(ev)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
}

func TestCheckPaymentStatusNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, "http://gateway.invalid", "")

	_, err := svc.CheckPaymentStatus("BK-does-not-exist")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCheckPaymentStatusReconcilesFromGateway(t *testing.T) {
	gw := &fakeGateway{
		linkBody: `{"data":{"id":"tx_1"}}`,
		txBody:   `{"data":{"id":"tx_1","status":"APPROVED","amount_in_cents":15000000}}`,
	}
	srv := gw.server()
	defer srv.Close()

	svc, st, mailer := newTestService(t, srv.URL, "")

	booking, err := svc.CreateAccommodationBooking(accommodationInput(""))
	require.NoError(t, err)

	updated, err := svc.CheckPaymentStatus(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, "APPROVED", updated.PaymentStatus)
	require.Len(t, mailer.sent, 1)

	stored, err := st.GetByReference(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.NotEmpty(t, stored.PaymentData)
}

func TestCheckPaymentStatusCashBookingSkipsGateway(t *testing.T) {
	// gateway URL is unreachable on purpose: a cash booking must never be
	// reconciled against it
	svc, _, mailer := newTestService(t, "http://gateway.invalid", "")

	booking, err := svc.CreateAccommodationBooking(accommodationInput(models.PaymentMethodCash))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	got, err := svc.CheckPaymentStatus(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	// no second email from polling an already confirmed booking
	assert.Len(t, mailer.sent, 1)
}

func TestAmountInCents(t *testing.T) {
	cents, err := amountInCents("150000")
	require.NoError(t, err)
	assert.Equal(t, int64(15000000), cents)

	cents, err = amountInCents("99.99")
	require.NoError(t, err)
	assert.Equal(t, int64(9999), cents)

	_, err = amountInCents("not-a-number")
	assert.Error(t, err)

	_, err = amountInCents("-5")
	assert.Error(t, err)
}
