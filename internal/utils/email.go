package utils

import (
	"bytes"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

// Mailer encapsule l'envoi SMTP. Construit une fois au démarrage et injecté
// dans les handlers ; un échec d'envoi est loggé mais ne bloque jamais
// la création de compte.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer() *Mailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@game-market-esgi-s2-4iw.world"
	}

	return &Mailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
	}
}

// SendEmail envoie un mail HTML, avec une pièce jointe PDF optionnelle.
func (m *Mailer) SendEmail(to []string, subject, htmlBody string, pdfAttachment []byte, attachmentName string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to...); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		if attachmentName == "" {
			attachmentName = "facture.pdf"
		}
		msg.AttachReader(attachmentName, bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}
