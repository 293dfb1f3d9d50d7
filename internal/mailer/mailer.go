package mailer

import (
	"fmt"
	"io"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers one résumé to HR
// This interface is used for dependency injection and testing
type EmailSender interface {
	SendResume(to string, response *models.SurveyResponse, resume *models.Resume) error
}

// SMTPSender sends résumé emails over SMTP with STARTTLS
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

// SendResume emails the résumé file as an attachment with the candidate's
// survey answers in the body
func (s *SMTPSender) SendResume(to string, response *models.SurveyResponse, resume *models.Resume) error {
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}
	if response == nil || resume == nil {
		return fmt.Errorf("survey response and resume are required")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Отправлено новое резюме")
	msg.SetBody("text/plain", buildBody(response))

	msg.Attach(resume.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(resume.Data)
		return err
	}))

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send resume email: %w", err)
	}

	return nil
}

func buildBody(response *models.SurveyResponse) string {
	return fmt.Sprintf(
		"Резюме было отправлено из WhatsApp пользователем с номером: %s.\n\n"+
			"ФИО: %s\nВозраст: %s\nEmail: %s\nЖелаемая вакансия: %s\n",
		response.Phone,
		response.FullName,
		response.AgeGroup,
		response.Email,
		response.DesiredVacancy,
	)
}
