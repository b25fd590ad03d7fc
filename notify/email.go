package notify

import (
	"log"
	"os"
	"strconv"

	"github.com/abanoubmamdouhhanna/cfc/models"
	gomail "gopkg.in/gomail.v2"
)

// SMTPSender delivers outbox notifications over SMTP.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPFromEnv builds a sender from SMTP_* environment variables. Returns
// nil when SMTP is not configured, which disables email delivery.
func SMTPFromEnv() *SMTPSender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email delivery disabled")
		return nil
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPSender{
		Host: host,
		Port: port,
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: os.Getenv("SMTP_FROM"),
	}
}

func (s *SMTPSender) Send(n models.Notification) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	body := n.Body
	if n.Attachment_url != "" {
		body += "\n\nInvoice: " + n.Attachment_url
	}
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}
