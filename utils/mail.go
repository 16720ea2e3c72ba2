package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SmtpMailer delivers HTML email over SMTP.
type SmtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSmtpMailer(host string, port int, username, password, from string) *SmtpMailer {
	return &SmtpMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SmtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
