package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"qr-feedback-backend/internal/auth"
	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/middleware"
	"qr-feedback-backend/internal/models"
	"qr-feedback-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ── fakes ───────────────────────────────────────────────────────────

type fakeStore struct {
	mu       sync.Mutex
	advisors map[bson.ObjectID]*models.Advisor
	order    []bson.ObjectID
	err      error
	onList   func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{advisors: map[bson.ObjectID]*models.Advisor{}}
}

func (s *fakeStore) add(a models.Advisor) *models.Advisor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = bson.NewObjectID()
	}
	stored := a
	s.advisors[a.ID] = &stored
	s.order = append(s.order, a.ID)
	return &stored
}

func (s *fakeStore) get(id bson.ObjectID) *models.Advisor {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *s.advisors[id]
	return &a
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.Advisor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, id := range s.order {
		if a := s.advisors[id]; a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Advisor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.advisors[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.PerformanceData = append([]models.FeedbackEntry(nil), a.PerformanceData...)
	return &cp, nil
}

func (s *fakeStore) Create(_ context.Context, advisor *models.Advisor) error {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	for _, a := range s.advisors {
		if a.Email == advisor.Email {
			s.mu.Unlock()
			return repository.ErrDuplicateEmail
		}
	}
	s.mu.Unlock()
	advisor.ID = s.add(*advisor).ID
	return nil
}

func (s *fakeStore) ListByRole(_ context.Context, role models.Role) ([]models.Advisor, error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return nil, s.err
	}
	out := []models.Advisor{}
	for _, id := range s.order {
		if a := s.advisors[id]; a.Role == role {
			out = append(out, *a)
		}
	}
	onList := s.onList
	s.mu.Unlock()
	if onList != nil {
		onList()
	}
	return out, nil
}

func (s *fakeStore) SetQRCode(_ context.Context, id bson.ObjectID, qrCode string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.advisors[id]
	if !ok {
		return false, nil
	}
	a.QRCode = qrCode
	return true, nil
}

func (s *fakeStore) AppendFeedback(_ context.Context, id bson.ObjectID, entry models.FeedbackEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.advisors[id]
	if !ok {
		return false, nil
	}
	a.PerformanceData = append(a.PerformanceData, entry)
	return true, nil
}

type fakeQR struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (q *fakeQR) Generate(advisorID string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	if q.err != nil {
		return "", q.err
	}
	return "/public/qrcodes/" + advisorID + ".png", nil
}

func (q *fakeQR) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

type fakeDashboard struct {
	mu          sync.Mutex
	data        map[string][]byte
	generation  int
	invalidated int
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{data: map[string][]byte{}}
}

func (d *fakeDashboard) Get(_ context.Context, rangeKey string) ([]byte, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strconv.Itoa(d.generation) + ":" + rangeKey
	v, ok := d.data[key]
	return v, key, ok
}

func (d *fakeDashboard) Set(_ context.Context, key string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[key] = data
	return nil
}

func (d *fakeDashboard) Invalidate(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalidated++
	d.generation++
	return nil
}

type sentNotification struct {
	advisor *models.Advisor
	entry   models.FeedbackEntry
}

type fakeNotifier struct {
	sent chan sentNotification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan sentNotification, 8)}
}

func (n *fakeNotifier) FeedbackReceived(_ context.Context, advisor *models.Advisor, entry models.FeedbackEntry) error {
	select {
	case n.sent <- sentNotification{advisor: advisor, entry: entry}:
	default:
	}
	return errors.New("delivery is not checked")
}

// ── test server ─────────────────────────────────────────────────────

type testEnv struct {
	store     *fakeStore
	qr        *fakeQR
	dashboard *fakeDashboard
	notifier  *fakeNotifier
	tokens    *auth.TokenIssuer
	router    http.Handler
}

var fixedNow = time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     newFakeStore(),
		qr:        &fakeQR{},
		dashboard: newFakeDashboard(),
		notifier:  newFakeNotifier(),
		tokens:    auth.NewTokenIssuer("test-secret", time.Hour),
	}
	logger := logging.NewNop()

	advisorHandler := NewAdvisorHandler(env.store, env.qr, env.tokens, env.dashboard, logger)
	feedbackHandler := NewFeedbackHandler(env.store, env.notifier, env.dashboard, logger)
	feedbackHandler.now = func() time.Time { return fixedNow }

	r := chi.NewRouter()
	r.Route("/api/advisors", func(r chi.Router) {
		advisorHandler.RegisterRoutes(r, middleware.JWTAuth(env.tokens, env.store))
	})
	r.Route("/api/feedback", feedbackHandler.RegisterRoutes)
	env.router = r
	return env
}

func (env *testEnv) addAdvisor(t *testing.T, name, email string, role models.Role, password string) *models.Advisor {
	t.Helper()
	hash := ""
	if password != "" {
		var err error
		hash, err = auth.HashPassword(password)
		if err != nil {
			t.Fatal(err)
		}
	}
	return env.store.add(models.Advisor{Name: name, Email: email, Role: role, Password: hash})
}

func (env *testEnv) tokenFor(t *testing.T, a *models.Advisor) string {
	t.Helper()
	token, err := env.tokens.Issue(a.ID.Hex(), a.Role)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func withBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
