package infra

import (
	"fmt"
	"net/smtp"

	"github.com/solanoize/optika-api/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for outbound notifications.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendLowStockAlert notifies staff that a product dropped to or below the
// low stock threshold.
func (m *Mailer) SendLowStockAlert(to, productName string, stock int) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Low stock: %s", productName)
	e.Text = []byte(fmt.Sprintf(
		"Product %q is down to %d units. Consider creating a purchase order.",
		productName, stock))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
