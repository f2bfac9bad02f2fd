package services

import (
	"context"
	"fmt"
	"log"

	"eventboard/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendModerationResult sends the admin-moderation outcome email to the
// event's initiator, using the "event_published" or "event_rejected"
// template.
func (s *emailService) SendModerationResult(ctx context.Context, data *domain.ModerationResultEmailData) error {
	if data == nil {
		return fmt.Errorf("moderation result data is nil")
	}
	templateName := "event_rejected"
	if data.Published {
		templateName = "event_published"
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send moderation result email: %w", err)
	}
	log.Printf("[EMAIL] Moderation result sent to %s", data.Email)
	return nil
}
