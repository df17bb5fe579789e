// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the SMTP connection settings. Host left empty means
// email is not configured for this deployment.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer delivers notification email through an SMTP relay.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendRatingNotification tells a recipe author that someone rated their
// recipe.
func (m *Mailer) SendRatingNotification(to, authorName, recipeTitle string, value int, reviewerName string) error {
	stars := strings.Repeat("★", value) + strings.Repeat("☆", 5-value)
	subject := fmt.Sprintf("New rating on %q", recipeTitle)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s rated your recipe <strong>%s</strong>: %s (%d/5)</p>",
		authorName, reviewerName, recipeTitle, stars, value,
	)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	port, err := strconv.Atoi(m.cfg.Port)
	if err != nil {
		return fmt.Errorf("invalid SMTP port %q: %w", m.cfg.Port, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
