package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"amazonas-backend/controllers"
	"amazonas-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controllers into the HTTP surface.
func SetupRouter(
	bc *controllers.BookingController,
	cc *controllers.CatalogController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Catalog
		tours := api.Group("/tours")
		{
			tours.GET("", cc.GetTours)
			tours.GET("/:id", cc.GetTourByID)
		}
		accommodations := api.Group("/accommodations")
		{
			accommodations.GET("", cc.GetAccommodations)
			accommodations.GET("/:id", cc.GetAccommodationByID)
		}

		// Booking + payment flow
		api.POST("/create-accommodation-booking", bc.CreateAccommodationBooking)
		api.POST("/create-tour-booking", bc.CreateTourBooking)
		api.GET("/payment-status/:reference", bc.PaymentStatus)
		api.POST("/send-confirmation-email", bc.SendConfirmationEmail)

		wompi := api.Group("/wompi")
		{
			wompi.POST("/webhook", bc.HandleWebhook)
			wompi.GET("/webhook", bc.WebhookLiveness)
		}
	}

	return r
}
