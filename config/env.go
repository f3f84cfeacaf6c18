package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds the environment-driven settings the booking flow consumes.
// WompiPrivateKey absent disables card bookings per request; it is not fatal
// at startup.
type App struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Public base URL of the site, used to build the payment redirect and
	// webhook callback URLs.
	SiteURL string `envconfig:"SITE_URL" default:"http://localhost:5000"`

	// Wompi gateway
	WompiAPIURL       string `envconfig:"WOMPI_API_URL" default:"https://production.wompi.co/v1"`
	WompiCheckoutBase string `envconfig:"WOMPI_CHECKOUT_BASE" default:"https://checkout.wompi.co/l/"`
	WompiPublicKey    string `envconfig:"WOMPI_PUBLIC_KEY"`
	WompiPrivateKey   string `envconfig:"WOMPI_PRIVATE_KEY"`
	// When set, webhook payloads must carry a matching checksum.
	WompiEventsSecret string `envconfig:"WOMPI_EVENTS_SECRET"`

	// Outbound mail. When host/user/pass are empty the mailer mock-sends.
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFromName string `envconfig:"SMTP_FROM_NAME" default:"Conexion Amazonas"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
