package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/models"
	"qr-feedback-backend/internal/notify"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

type FeedbackHandler struct {
	store     AdvisorStore
	notifier  notify.Notifier
	dashboard DashboardCache
	logger    *logging.Logger
	now       func() time.Time
}

func NewFeedbackHandler(store AdvisorStore, notifier notify.Notifier, dashboard DashboardCache, logger *logging.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:     store,
		notifier:  notifier,
		dashboard: dashboard,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *FeedbackHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{advisorId}", h.Form)
	r.Post("/submit/{advisorId}", h.Submit)
}

// rating accepts JSON numbers and numeric strings. Whole floats such as 4.0 count as
// integers; anything else decodes to zero and fails validation.
type rating int

func (q *rating) UnmarshalJSON(b []byte) error {
	*q = parseRating(strings.Trim(string(b), `"`))
	return nil
}

func parseRating(s string) rating {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return rating(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return rating(f)
}

type SubmitFeedbackRequest struct {
	CustomerName string `json:"customerName" validate:"max=200"`
	Q1           rating `json:"q1" validate:"required,min=1,max=5"`
	Q2           rating `json:"q2" validate:"required,min=1,max=5"`
	Q3           rating `json:"q3" validate:"required,min=1,max=5"`
	Q4           rating `json:"q4" validate:"required,min=1,max=5"`
	Q5           rating `json:"q5" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=5000"`
}

func (req SubmitFeedbackRequest) entry(now time.Time) models.FeedbackEntry {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = models.AnonymousCustomer
	}
	return models.FeedbackEntry{
		Date:         now,
		CustomerName: name,
		Q1:           int(req.Q1),
		Q2:           int(req.Q2),
		Q3:           int(req.Q3),
		Q4:           int(req.Q4),
		Q5:           int(req.Q5),
		Comment:      strings.TrimSpace(req.Comment),
	}
}

// --- GET /api/feedback/{advisorId} ---

func (h *FeedbackHandler) Form(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := advisorIDParam(r)
	if !ok {
		http.Error(w, "Invalid Advisor ID format", http.StatusBadRequest)
		return
	}
	advisor, err := h.store.FindByID(ctx, id)
	if err != nil {
		logging.FromContext(ctx, h.logger).Error(ctx, "error loading feedback form", zap.Error(err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	if advisor == nil {
		http.Error(w, "Advisor not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := renderFeedbackForm(&buf, advisor); err != nil {
		logging.FromContext(ctx, h.logger).Error(ctx, "error rendering feedback form", zap.Error(err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// --- POST /api/feedback/submit/{advisorId} ---

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := advisorIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid Advisor ID format")
		return
	}

	req, err := decodeFeedback(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validationErrors(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": errs[0], "errors": errs})
		return
	}

	advisor, err := h.store.FindByID(ctx, id)
	if err != nil {
		serverError(ctx, h.logger, w, "Error submitting feedback", err)
		return
	}
	if advisor == nil {
		writeError(w, http.StatusNotFound, "Advisor not found")
		return
	}

	entry := req.entry(h.now().UTC())
	found, err := h.store.AppendFeedback(ctx, id, entry)
	if err != nil {
		serverError(ctx, h.logger, w, "Error submitting feedback", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Advisor not found")
		return
	}

	logger := logging.FromContext(ctx, h.logger)
	logger.Info(ctx, "feedback submitted", zap.String("advisor_id", id.Hex()))

	if err := h.dashboard.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "dashboard cache invalidation failed", zap.Error(err))
	}

	// Notify in the background; the customer does not wait for e-mail delivery.
	notifyCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(notifyCtx, notifyTimeout)
		defer cancel()
		if err := h.notifier.FeedbackReceived(ctx, advisor, entry); err != nil {
			logger.Error(ctx, "error sending feedback notification", zap.Error(err))
		}
	}()

	var buf bytes.Buffer
	if err := renderThankYou(&buf); err != nil {
		serverError(ctx, h.logger, w, "Error submitting feedback", err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func decodeFeedback(r *http.Request) (SubmitFeedbackRequest, error) {
	var req SubmitFeedbackRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.CustomerName = r.PostForm.Get("customerName")
	req.Comment = r.PostForm.Get("comment")
	for i, q := range []*rating{&req.Q1, &req.Q2, &req.Q3, &req.Q4, &req.Q5} {
		*q = parseRating(r.PostForm.Get("q" + strconv.Itoa(i+1)))
	}
	return req, nil
}
