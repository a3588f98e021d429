package core

import "net/mail"

type (
	// EmailMessage is a plain-text email to be sent through an EmailService.
	EmailMessage struct {
		To      []mail.Address
		Subject string
		Body    string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently and never blocks the caller.
		SendMessages(messages ...*EmailMessage)
	}
)

func (msg EmailMessage) HasRecipients() bool {
	return len(msg.To) > 0
}

func (msg EmailMessage) HasContent() bool {
	return msg.Body != ""
}
