package notify

import (
	"context"
	"errors"
	"testing"

	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/models"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func testAdvisor() *models.Advisor {
	return &models.Advisor{ID: bson.NewObjectID(), Name: "Jane <Doe>", Email: "jane@example.com"}
}

func testEntry() models.FeedbackEntry {
	return models.FeedbackEntry{CustomerName: "Bob", Q1: 4, Q2: 4, Q3: 4, Q4: 4, Q5: 5, Comment: "great"}
}

func TestResendNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := &ResendNotifier{emails: sender, from: "noreply@example.com"}

	require.NoError(t, n.FeedbackReceived(context.Background(), testAdvisor(), testEntry()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, []string{"jane@example.com"}, msg.To)
	assert.Equal(t, "New feedback from Bob", msg.Subject)
	assert.Contains(t, msg.Html, "Jane &lt;Doe&gt;")
	assert.Contains(t, msg.Text, "Rating: ★★★★☆ (4.2)")
	assert.Contains(t, msg.Text, "Comment: great")
}

func TestResendNotifierError(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	n := &ResendNotifier{emails: sender, from: "noreply@example.com"}

	err := n.FeedbackReceived(context.Background(), testAdvisor(), testEntry())
	assert.ErrorContains(t, err, "boom")
}

func TestResendNotifierSkipsMissingEmail(t *testing.T) {
	sender := &fakeSender{}
	n := &ResendNotifier{emails: sender}

	advisor := testAdvisor()
	advisor.Email = ""
	require.NoError(t, n.FeedbackReceived(context.Background(), advisor, testEntry()))
	assert.Empty(t, sender.sent)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(logging.NewNop())
	assert.NoError(t, n.FeedbackReceived(context.Background(), testAdvisor(), testEntry()))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★★★", stars(5))
}
