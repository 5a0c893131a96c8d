package infra

import (
	"fmt"
	"net/smtp"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends transactional mail with optional PDF attachments.
type Mailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewMailer(cfg *config.Config) *Mailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &Mailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

func (m *Mailer) Enviar(destinatario, asunto, cuerpo, adjunto string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{destinatario}
	e.Subject = asunto
	e.Text = []byte(cuerpo)
	if adjunto != "" {
		if _, err := e.AttachFile(adjunto); err != nil {
			return fmt.Errorf("adjuntar %s: %w", adjunto, err)
		}
	}
	return e.Send(m.addr, m.auth)
}
