package utils

import (
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/sahilvr03/kido-store/internal/config"
)

// SMTPConfigured indique si l'envoi d'emails est activé
func SMTPConfigured() bool {
	return os.Getenv("SMTP_HOST") != ""
}

// SendEmail envoie un email HTML via le serveur SMTP configuré
func SendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(config.Getenv("SMTP_FROM", "noreply@kiddo-store.com")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	port, err := strconv.Atoi(config.Getenv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}
