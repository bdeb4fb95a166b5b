// Package email sends plain-text notifications over SMTP.
package email

import (
	"gopkg.in/mail.v2"
)

type sender interface {
	DialAndSend(m ...*mail.Message) error
}

type Client struct {
	from   string
	dialer sender
}

func NewClient(smtpHost string, smtpPort int, username, password, from string) *Client {
	return &Client{
		from:   from,
		dialer: mail.NewDialer(smtpHost, smtpPort, username, password),
	}
}

// Send mails msg to the given address with subject as the mail subject.
func (c *Client) Send(to, subject, msg string) error {
	return c.dialer.DialAndSend(c.message(to, subject, msg))
}

func (c *Client) message(to, subject, msg string) *mail.Message {
	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)

	message.SetBody("text/plain", msg)

	return message
}
