package notifier

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/core-coin/vectigal/pkg/logger"
)

// EmailNotifier sends operator alerts to the operator's mailbox.
type EmailNotifier struct {
	logger *logger.Logger

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	SMTPAuth smtp.Auth

	// recipient is the operator's email address.
	recipient string
}

func NewEmailNotifier(logger *logger.Logger, SMTPHost string, SMTPPort int, SMTPUser, SMTPPassword, SMTPSender, recipient string) *EmailNotifier {
	auth := smtp.PlainAuth(
		"",
		SMTPUser,
		SMTPPassword,
		SMTPHost,
	)

	return &EmailNotifier{
		logger:       logger,
		SMTPAuth:     auth,
		SMTPHost:     SMTPHost,
		SMTPPort:     SMTPPort,
		SMTPUser:     SMTPUser,
		SMTPPassword: SMTPPassword,
		SMTPSender:   SMTPSender,
		recipient:    recipient,
	}
}

func (e *EmailNotifier) SendAlert(message string) {
	addr := fmt.Sprintf("%s:%s", e.SMTPHost, strconv.Itoa(e.SMTPPort))
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		e.SMTPSender,
		e.recipient,
		"Vectigal alert",
		message,
	)
	if err := smtp.SendMail(addr, e.SMTPAuth, e.SMTPSender, []string{e.recipient}, []byte(msg)); err != nil {
		e.logger.Error("Failed to send email alert: ", err)
	}
}
