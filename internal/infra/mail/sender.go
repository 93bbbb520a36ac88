package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"
)

const productName = "Ligue CRM"

//go:embed templates/welcome.html
var templates embed.FS

var welcomeTmpl = template.Must(template.ParseFS(templates, "templates/welcome.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendWelcome implementa usecase.EmailService.
func (s *EmailSender) SendWelcome(to, name string) error {
	data := WelcomeEmailData{
		Name:        name,
		Email:       to,
		ProductName: productName,
		LoginURL:    s.LoginURL,
	}

	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Bem-vindo ao %s, %s!", productName, name))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

// LogSender é usado quando não há SMTP configurado: só registra o envio.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) SendWelcome(to, name string) error {
	s.Log.Info("SMTP não configurado, email de boas-vindas não enviado", "to", to, "name", name)
	return nil
}
