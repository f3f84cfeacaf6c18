package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"amazonas-backend/config"
)

// ConfirmationEmail carries everything the confirmation template needs.
// CheckIn/CheckOut or TourDate may be empty depending on the booking kind.
type ConfirmationEmail struct {
	Reference string
	Name      string
	Email     string
	CheckIn   string
	CheckOut  string
	TourDate  string
	Guests    int
	Room      string
	Amount    string
}

// SMTPMailer sends booking confirmations over SMTP. Without credentials it
// mock-sends (logs) so the booking flow never depends on mail being set up.
type SMTPMailer struct {
	Cfg config.App
}

func NewSMTPMailer(cfg config.App) *SMTPMailer {
	return &SMTPMailer{Cfg: cfg}
}

// SendConfirmation delivers the confirmation email and returns the assigned
// message id. A single attempt is made; callers log failures and continue.
func (m *SMTPMailer) SendConfirmation(d ConfirmationEmail) (string, error) {
	cfg := m.Cfg

	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" || cfg.SMTPHost == "" {
		log.Printf("[MOCK EMAIL] confirmation to:%s booking:%s amount:%s", d.Email, d.Reference, d.Amount)
		return "", nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	name := safe(d.Name)
	reference := safe(d.Reference)

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), cfg.SMTPHost)
	from := fmt.Sprintf("%s <%s>", cfg.SMTPFromName, cfg.SMTPUsername)
	to := []string{d.Email}
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)

	subject := fmt.Sprintf("Confirmación de Reserva - %s", reference)
	boundary := "----=_CONFIRMATION_EMAIL_BOUNDARY"

	var details strings.Builder
	details.WriteString(fmt.Sprintf("Referencia: %s\nNombre: %s\nCorreo Electrónico: %s\n", reference, name, d.Email))
	if d.CheckIn != "" && d.CheckOut != "" {
		details.WriteString(fmt.Sprintf("Fecha de Entrada: %s\nFecha de Salida: %s\n", safe(d.CheckIn), safe(d.CheckOut)))
	}
	if d.TourDate != "" {
		details.WriteString(fmt.Sprintf("Fecha del Tour: %s\n", safe(d.TourDate)))
	}
	if d.Guests > 0 {
		details.WriteString(fmt.Sprintf("Número de Huéspedes: %d\n", d.Guests))
	}
	if d.Room != "" {
		details.WriteString(fmt.Sprintf("Habitación: %s\n", safe(d.Room)))
	}
	if d.Amount != "" {
		details.WriteString(fmt.Sprintf("Monto Total: $%s COP\n", safe(d.Amount)))
	}

	plainBody := fmt.Sprintf(
		"Estimado %s,\n\n"+
			"¡Gracias por su reserva! Aquí están los detalles de su reserva:\n\n"+
			"%s\n"+
			"Si tiene alguna pregunta, no dude en contactarnos.\n\n"+
			"Atentamente,\nEquipo de Conexion-Amazonas\n",
		name, details.String(),
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Confirmación de Reserva</title>
<style>
body { font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:600px; margin:0 auto; }
.card { background:#f3f4f6; padding:20px; border-radius:8px; margin:20px 0; }
h1 { color:#2563eb; }
</style>
</head>
<body>
<div class="container">
  <h1>Confirmación de Reserva</h1>
  <p>Estimado %s,</p>
  <p>¡Gracias por su reserva! Aquí están los detalles de su reserva:</p>
  <div class="card">
    <h3>Detalles de la Reserva:</h3>
    <pre style="font-family:inherit">%s</pre>
  </div>
  <p>Si tiene alguna pregunta, no dude en contactarnos.</p>
  <p>Atentamente,<br>Equipo de Conexion-Amazonas</p>
</div>
</body>
</html>`,
		htmlEscape(name), htmlEscape(details.String()),
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", d.Email))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, cfg.SMTPUsername, to, []byte(sb.String())); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", d.Email, err)
		return "", err
	}

	log.Printf("Confirmation email sent to %s (booking %s)", d.Email, reference)
	return messageID, nil
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
