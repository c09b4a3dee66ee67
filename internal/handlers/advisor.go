package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"qr-feedback-backend/internal/auth"
	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/middleware"
	"qr-feedback-backend/internal/models"
	"qr-feedback-backend/internal/performance"
	"qr-feedback-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type AdvisorStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Advisor, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Advisor, error)
	Create(ctx context.Context, advisor *models.Advisor) error
	ListByRole(ctx context.Context, role models.Role) ([]models.Advisor, error)
	SetQRCode(ctx context.Context, id bson.ObjectID, qrCode string) (bool, error)
	AppendFeedback(ctx context.Context, id bson.ObjectID, entry models.FeedbackEntry) (bool, error)
}

type QRGenerator interface {
	Generate(advisorID string) (string, error)
}

type TokenIssuer interface {
	Issue(advisorID string, role models.Role) (string, error)
}

type DashboardCache interface {
	Get(ctx context.Context, rangeKey string) (data []byte, key string, ok bool)
	Set(ctx context.Context, key string, data []byte) error
	Invalidate(ctx context.Context) error
}

type AdvisorHandler struct {
	store     AdvisorStore
	qr        QRGenerator
	tokens    TokenIssuer
	dashboard DashboardCache
	logger    *logging.Logger
}

func NewAdvisorHandler(store AdvisorStore, qr QRGenerator, tokens TokenIssuer, dashboard DashboardCache, logger *logging.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		store:     store,
		qr:        qr,
		tokens:    tokens,
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *AdvisorHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(middleware.RequireManager).Get("/all-performance", h.AllPerformance)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSelfOrManager("advisorId"))

			r.Get("/details/{advisorId}", h.Details)
			r.Get("/performance/{advisorId}", h.Performance)
			r.Get("/{advisorId}/qrcode", h.RegenerateQRCode)
			r.Post("/{advisorId}/regenerate-qrcode", h.RegenerateQRCode)
		})
	})
}

// --- Request / Response types ---

type RegisterRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=advisor manager"`
}

type RegisterResponse struct {
	Message   string        `json:"message"`
	AdvisorID bson.ObjectID `json:"advisorId"`
	Role      models.Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	AdvisorID bson.ObjectID `json:"advisorId"`
	Role      models.Role   `json:"role"`
}

type QRCodeResponse struct {
	QRCodeURL string `json:"qrCodeURL"`
}

// --- POST /api/advisors/register ---

func (h *AdvisorHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errs := validationErrors(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": errs[0], "errors": errs})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleAdvisor
	}

	existing, err := h.store.FindByEmail(ctx, req.Email)
	if err != nil {
		serverError(ctx, h.logger, w, "Server error during registration", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, repository.ErrDuplicateEmail.Error())
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(ctx, h.logger, w, "Server error during registration", err)
		return
	}

	advisor := &models.Advisor{
		Name:            req.Name,
		Email:           req.Email,
		Password:        hashed,
		Role:            req.Role,
		PerformanceData: []models.FeedbackEntry{},
	}
	if err := h.store.Create(ctx, advisor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serverError(ctx, h.logger, w, "Server error during registration", err)
		return
	}

	if advisor.Role == models.RoleAdvisor {
		h.refreshQRCode(ctx, advisor.ID)
		h.invalidateDashboard(ctx)
	}

	logging.FromContext(ctx, h.logger).Info(ctx, "user registered",
		zap.String("advisor_id", advisor.ID.Hex()),
		zap.String("role", string(advisor.Role)),
	)

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message:   "User registered successfully",
		AdvisorID: advisor.ID,
		Role:      advisor.Role,
	})
}

// --- POST /api/advisors/login ---

func (h *AdvisorHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := validationErrors(req); errs != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	advisor, err := h.store.FindByEmail(ctx, req.Email)
	if err != nil {
		serverError(ctx, h.logger, w, "Server error during login", err)
		return
	}
	if advisor == nil || !auth.ComparePassword(advisor.Password, req.Password) {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if advisor.Role == models.RoleAdvisor {
		h.refreshQRCode(ctx, advisor.ID)
	}

	token, err := h.tokens.Issue(advisor.ID.Hex(), advisor.Role)
	if err != nil {
		serverError(ctx, h.logger, w, "Server error during login", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		AdvisorID: advisor.ID,
		Role:      advisor.Role,
	})
}

// --- GET /api/advisors/details/{advisorId} ---

func (h *AdvisorHandler) Details(w http.ResponseWriter, r *http.Request) {
	advisor, ok := h.loadAdvisor(w, r, "Error fetching advisor info")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, advisor.Details())
}

// --- GET /api/advisors/{advisorId}/qrcode, POST /api/advisors/{advisorId}/regenerate-qrcode ---

func (h *AdvisorHandler) RegenerateQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	advisor, ok := h.loadAdvisor(w, r, "Error regenerating QR Code")
	if !ok {
		return
	}

	url, err := h.qr.Generate(advisor.ID.Hex())
	if err != nil {
		serverError(ctx, h.logger, w, "Error regenerating QR Code", err)
		return
	}
	found, err := h.store.SetQRCode(ctx, advisor.ID, url)
	if err != nil {
		serverError(ctx, h.logger, w, "Error regenerating QR Code", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Advisor not found")
		return
	}

	writeJSON(w, http.StatusOK, QRCodeResponse{QRCodeURL: url})
}

// --- GET /api/advisors/performance/{advisorId} ---

func (h *AdvisorHandler) Performance(w http.ResponseWriter, r *http.Request) {
	dateRange, err := performance.ParseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	advisor, ok := h.loadAdvisor(w, r, "Error fetching performance data")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, performance.Summarize(advisor, dateRange))
}

// --- GET /api/advisors/all-performance ---

func (h *AdvisorHandler) AllPerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dateRange, err := performance.ParseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cached, cacheKey, ok := h.dashboard.Get(ctx, dateRange.Key())
	if ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	advisors, err := h.store.ListByRole(ctx, models.RoleAdvisor)
	if err != nil {
		serverError(ctx, h.logger, w, "Error fetching all advisor performance", err)
		return
	}

	body, err := json.Marshal(performance.SummarizeAll(advisors, dateRange))
	if err != nil {
		serverError(ctx, h.logger, w, "Error fetching all advisor performance", err)
		return
	}
	if err := h.dashboard.Set(ctx, cacheKey, body); err != nil {
		logging.FromContext(ctx, h.logger).Warn(ctx, "dashboard cache write failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// --- Helpers ---

// loadAdvisor resolves {advisorId} and writes the 400/404/500 response itself on failure.
func (h *AdvisorHandler) loadAdvisor(w http.ResponseWriter, r *http.Request, errMessage string) (*models.Advisor, bool) {
	id, ok := advisorIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid Advisor ID format")
		return nil, false
	}
	advisor, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		serverError(r.Context(), h.logger, w, errMessage, err)
		return nil, false
	}
	if advisor == nil {
		writeError(w, http.StatusNotFound, "Advisor not found")
		return nil, false
	}
	return advisor, true
}

// refreshQRCode is best-effort: the stored URL is left untouched when generation fails.
func (h *AdvisorHandler) refreshQRCode(ctx context.Context, id bson.ObjectID) {
	logger := logging.FromContext(ctx, h.logger)
	url, err := h.qr.Generate(id.Hex())
	if err != nil {
		logger.Warn(ctx, "qr code generation failed", zap.String("advisor_id", id.Hex()), zap.Error(err))
		return
	}
	if _, err := h.store.SetQRCode(ctx, id, url); err != nil {
		logger.Warn(ctx, "qr code update failed", zap.String("advisor_id", id.Hex()), zap.Error(err))
	}
}

func (h *AdvisorHandler) invalidateDashboard(ctx context.Context) {
	if err := h.dashboard.Invalidate(ctx); err != nil {
		logging.FromContext(ctx, h.logger).Warn(ctx, "dashboard cache invalidation failed", zap.Error(err))
	}
}
