// controllers/booking_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonas-backend/services"
	"amazonas-backend/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

// CreateAccommodationBookingRequest mirrors the booking form payload.
// TotalPrice is json.Number so both "150000" and 150000 bind.
type CreateAccommodationBookingRequest struct {
	GuestName       string      `json:"guestName" binding:"required"`
	GuestEmail      string      `json:"guestEmail" binding:"required"`
	GuestCount      int         `json:"guestCount" binding:"required,gt=0"`
	CheckInDate     string      `json:"checkInDate" binding:"required"`
	CheckOutDate    string      `json:"checkOutDate" binding:"required"`
	AccommodationID string      `json:"accommodationId" binding:"required"`
	TotalPrice      json.Number `json:"totalPrice" binding:"required"`
	PaymentMethod   string      `json:"paymentMethod"`
	Status          string      `json:"status"`
}

type CreateTourBookingRequest struct {
	GuestName  string      `json:"guestName" binding:"required"`
	GuestEmail string      `json:"guestEmail" binding:"required"`
	GuestCount int         `json:"guestCount" binding:"required,gt=0"`
	TourDate   string      `json:"tourDate" binding:"required"`
	TourID     string      `json:"tourId" binding:"required"`
	TotalPrice json.Number `json:"totalPrice" binding:"required"`
}

type SendConfirmationEmailRequest struct {
	Reference string `json:"reference" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	TourDate  string `json:"tourDate"`
	Guests    int    `json:"guests"`
	Room      string `json:"room"`
	Amount    string `json:"amount"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	Mailer     services.Mailer
}

func NewBookingController(svc *services.BookingService, mailer services.Mailer) *BookingController {
	return &BookingController{BookingSvc: svc, Mailer: mailer}
}

// ---------------------------
// 1) Create accommodation booking
// ---------------------------

func (ctrl *BookingController) CreateAccommodationBooking(c *gin.Context) {
	var payload CreateAccommodationBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("CreateAccommodationBooking bind error: %v", err)
		utils.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.CreateAccommodationBooking(services.AccommodationBookingInput{
		GuestName:       payload.GuestName,
		GuestEmail:      payload.GuestEmail,
		GuestCount:      payload.GuestCount,
		CheckInDate:     payload.CheckInDate,
		CheckOutDate:    payload.CheckOutDate,
		AccommodationID: payload.AccommodationID,
		TotalPrice:      payload.TotalPrice.String(),
		PaymentMethod:   payload.PaymentMethod,
	})
	if err != nil {
		respondBookingError(c, booking, err)
		return
	}

	checkoutURL := booking.CheckoutURL
	if checkoutURL == "" {
		// cash path: no hosted checkout, send the client straight to the
		// success page
		checkoutURL = fmt.Sprintf("/booking-success?reference=%s", booking.Reference)
	}

	utils.OK(c, gin.H{"booking": booking, "checkout_url": checkoutURL})
}

// ---------------------------
// 2) Create tour booking
// ---------------------------

func (ctrl *BookingController) CreateTourBooking(c *gin.Context) {
	var payload CreateTourBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("CreateTourBooking bind error: %v", err)
		utils.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.CreateTourBooking(services.TourBookingInput{
		GuestName:  payload.GuestName,
		GuestEmail: payload.GuestEmail,
		GuestCount: payload.GuestCount,
		TourDate:   payload.TourDate,
		TourID:     payload.TourID,
		TotalPrice: payload.TotalPrice.String(),
	})
	if err != nil {
		respondBookingError(c, booking, err)
		return
	}

	utils.OK(c, gin.H{"booking": booking, "checkout_url": booking.CheckoutURL})
}

// ---------------------------
// 3) Payment status (polling)
// ---------------------------

func (ctrl *BookingController) PaymentStatus(c *gin.Context) {
	reference := c.Param("reference")

	booking, err := ctrl.BookingSvc.CheckPaymentStatus(reference)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.Fail(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, services.ErrIllegalTransition):
			utils.Fail(c, http.StatusConflict, err.Error(), gin.H{"booking": booking})
		default:
			log.Printf("PaymentStatus error for %s: %v", reference, err)
			utils.Fail(c, http.StatusInternalServerError, "Failed to check payment status")
		}
		return
	}

	utils.OK(c, gin.H{"booking": booking})
}

// ---------------------------
// 4) Gateway webhook
// ---------------------------

func (ctrl *BookingController) HandleWebhook(c *gin.Context) {
	var ev services.WebhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		log.Printf("HandleWebhook bind error: %v", err)
		utils.Fail(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	booking, err := ctrl.BookingSvc.HandleWebhook(ev)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingTransactionID):
			utils.Fail(c, http.StatusBadRequest, "Webhook payload missing transaction id")
		case errors.Is(err, services.ErrInvalidSignature):
			utils.Fail(c, http.StatusUnauthorized, "Invalid webhook signature")
		case errors.Is(err, services.ErrBookingNotFound):
			utils.Fail(c, http.StatusNotFound, "No booking for transaction")
		case errors.Is(err, services.ErrIllegalTransition):
			utils.Fail(c, http.StatusConflict, err.Error())
		default:
			log.Printf("HandleWebhook error: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Failed to process webhook")
		}
		return
	}

	utils.OK(c, gin.H{
		"message": "Webhook processed",
		"booking": gin.H{
			"reference":     booking.Reference,
			"status":        booking.Status,
			"paymentStatus": booking.PaymentStatus,
		},
	})
}

// WebhookLiveness answers the gateway's GET probe.
func (ctrl *BookingController) WebhookLiveness(c *gin.Context) {
	utils.OK(c, gin.H{"message": "Wompi webhook endpoint is live"})
}

// ---------------------------
// 5) Manual confirmation email
// ---------------------------

func (ctrl *BookingController) SendConfirmationEmail(c *gin.Context) {
	var payload SendConfirmationEmailRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	messageID, err := ctrl.Mailer.SendConfirmation(utils.ConfirmationEmail{
		Reference: payload.Reference,
		Name:      payload.Name,
		Email:     payload.Email,
		CheckIn:   payload.CheckIn,
		CheckOut:  payload.CheckOut,
		TourDate:  payload.TourDate,
		Guests:    payload.Guests,
		Room:      payload.Room,
		Amount:    payload.Amount,
	})
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to send email: "+err.Error())
		return
	}

	utils.OK(c, gin.H{"messageId": messageID})
}

// ---------------------------
// Shared error mapping for the creation paths
// ---------------------------

func respondBookingError(c *gin.Context, booking interface{}, err error) {
	var gwErr *services.GatewayError
	switch {
	case errors.Is(err, services.ErrGatewayNotConfigured):
		utils.Fail(c, http.StatusInternalServerError, "Payment gateway is not configured")
	case errors.Is(err, services.ErrAmountOutOfRange):
		utils.Fail(c, http.StatusBadRequest, "Booking amount is out of the accepted range")
	case errors.As(err, &gwErr):
		utils.Fail(c, http.StatusBadRequest, gwErr.Message, gin.H{"booking": booking})
	default:
		log.Printf("booking creation error: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to create booking")
	}
}
