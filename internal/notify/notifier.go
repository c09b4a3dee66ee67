package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"qr-feedback-backend/internal/models"
	"qr-feedback-backend/internal/performance"
)

// Notifier tells an advisor that new feedback arrived.
type Notifier interface {
	FeedbackReceived(ctx context.Context, advisor *models.Advisor, entry models.FeedbackEntry) error
}

func subject(entry models.FeedbackEntry) string {
	return fmt.Sprintf("New feedback from %s", entry.CustomerName)
}

func formatText(advisor *models.Advisor, entry models.FeedbackEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New feedback for %s\n", advisor.Name)
	fmt.Fprintf(&b, "Customer: %s\n", entry.CustomerName)
	fmt.Fprintf(&b, "Rating: %s (%.1f)\n", stars(performance.RoundedAverage(entry)), performance.EntryAverage(entry))
	if entry.Comment != "" {
		fmt.Fprintf(&b, "Comment: %s\n", entry.Comment)
	}
	return b.String()
}

func formatHTML(advisor *models.Advisor, entry models.FeedbackEntry) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">`)
	fmt.Fprintf(&b, `<h2 style="color: #333;">New feedback for %s</h2>`, html.EscapeString(advisor.Name))
	fmt.Fprintf(&b, `<p>Customer: %s</p>`, html.EscapeString(entry.CustomerName))
	for i, q := range models.Questions {
		fmt.Fprintf(&b, `<p style="color: #666; font-size: 14px;">%s<br><strong>%d / 5</strong></p>`,
			html.EscapeString(q), entry.Ratings()[i])
	}
	if entry.Comment != "" {
		fmt.Fprintf(&b, `<p>Comment: %s</p>`, html.EscapeString(entry.Comment))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", max(5-n, 0))
}
