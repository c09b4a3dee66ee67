package notify

import (
	"context"
	"fmt"

	"qr-feedback-backend/internal/models"

	"github.com/resend/resend-go/v2"
)

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier e-mails the advisor through Resend.
type ResendNotifier struct {
	emails emailSender
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	client := resend.NewClient(apiKey)
	return &ResendNotifier{emails: client.Emails, from: from}
}

func (n *ResendNotifier) FeedbackReceived(ctx context.Context, advisor *models.Advisor, entry models.FeedbackEntry) error {
	if advisor.Email == "" {
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{advisor.Email},
		Subject: subject(entry),
		Html:    formatHTML(advisor, entry),
		Text:    formatText(advisor, entry),
	}
	if _, err := n.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
