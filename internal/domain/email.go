package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with
// the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ModerationResultEmailData holds data for the email sent to an event's
// initiator when an admin publishes or rejects the event.
type ModerationResultEmailData struct {
	Email         string
	InitiatorName string
	EventTitle    string
	Published     bool
}

// EmailService defines the contract for sending domain-level emails.
// Sending is best-effort; callers must not fail their primary operation
// on an email error.
type EmailService interface {
	SendModerationResult(ctx context.Context, data *ModerationResultEmailData) error
}
