package notify

import (
	"context"

	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/models"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log. Used when no mail provider is configured.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) FeedbackReceived(ctx context.Context, advisor *models.Advisor, entry models.FeedbackEntry) error {
	n.logger.Info(ctx, "feedback notification",
		zap.String("advisor_id", advisor.ID.Hex()),
		zap.String("to", advisor.Email),
		zap.String("message", formatText(advisor, entry)),
	)
	return nil
}
