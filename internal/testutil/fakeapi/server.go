// Package fakeapi is an in-memory stand-in for the PassGuardian service,
// used by tests. Ratings are canned; it does not score passwords.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/traits"
)

const sessionCookie = "session"

// Endpoint paths served by the fake.
const (
	PathCheck    = "/check_password"
	PathGenerate = "/generate_password"
	PathHistory  = "/get_history"
	PathClear    = "/clear_history"
	PathSession  = "/session_info"
	PathHealth   = "/health"
)

// Server records calls and keeps per-session history in memory.
type Server struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
	sessions map[string][]model.HistoryEntry
	results  map[string]model.StrengthResult
	nextID   int
	delay    time.Duration

	// DefaultResult answers checks for passwords without a canned result.
	DefaultResult model.StrengthResult
	// GeneratedRating is reported for every generated password.
	GeneratedRating model.Rating
}

// New returns a Server with a Medium default verdict and Strong generations.
func New() *Server {
	return &Server{
		calls:    make(map[string]int),
		failures: make(map[string]int),
		sessions: make(map[string][]model.HistoryEntry),
		results:  make(map[string]model.StrengthResult),
		DefaultResult: model.StrengthResult{
			Rating: model.RatingMedium,
			Feedback: []string{
				"✗ Password should be at least 12 characters long",
				"✓ Not a commonly used password",
			},
		},
		GeneratedRating: model.RatingStrong,
	}
}

// Start serves the fake on an httptest server that is closed with the test.
func (s *Server) Start(t testing.TB) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// Handler returns the chi router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.track)

	r.Get(PathHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.HealthResponse{Status: "OK", Message: "PassGuardian API is running"})
	})
	r.Post(PathCheck, s.handleCheck)
	r.Post(PathGenerate, s.handleGenerate)
	r.Get(PathHistory, s.handleHistory)
	r.Post(PathClear, s.handleClear)
	r.Get(PathSession, s.handleSession)
	return r
}

// SetResult cans the verdict for a specific password.
func (s *Server) SetResult(password string, res model.StrengthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[password] = res
}

// Fail makes path answer with status until cleared with status 0.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = status
}

// SetDelay slows every response down.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls returns the number of requests served on any path.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Seed replaces the history of every session, present and future, with entries.
func (s *Server) Seed(entries ...model.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions["*"] = append([]model.HistoryEntry(nil), entries...)
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		status := s.failures[r.URL.Path]
		delay := s.delay
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != 0 {
			writeJSON(w, status, errorResponse("injected failure"))
			return
		}

		if _, err := r.Cookie(sessionCookie); err != nil {
			s.mu.Lock()
			s.nextID++
			id := "sess-" + strconv.Itoa(s.nextID)
			s.mu.Unlock()
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
			r.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req model.CheckRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	s.mu.Lock()
	res, ok := s.results[req.Password]
	if !ok {
		res = s.DefaultResult
	}
	s.mu.Unlock()

	s.record(r, req.Password, res.Rating, res.Feedback, model.EntryChecked)
	writeJSON(w, http.StatusOK, model.StrengthResult{Rating: res.Rating, Feedback: res.Feedback})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var settings model.GeneratorSettings
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	password, err := generate(settings)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	s.mu.Lock()
	rating := s.GeneratedRating
	s.mu.Unlock()
	feedback := []string{"✓ Good length (12+ characters)", "✓ Not a commonly used password"}

	s.record(r, password, rating, feedback, model.EntryGenerated)
	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Password: password,
		Rating:   rating,
		Feedback: feedback,
		Length:   len(password),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	history := append([]model.HistoryEntry{}, s.sessions[sessionID(r)]...)
	history = append(history, s.sessions["*"]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.HistoryResponse{History: history})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delete(s.sessions, sessionID(r))
	delete(s.sessions, "*")
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	s.mu.Lock()
	count := len(s.sessions[id])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":    id,
		"history_count": count,
	})
}

// record keeps a trait-only entry, newest first, the way the service does.
func (s *Server) record(r *http.Request, password string, rating model.Rating, feedback []string, kind model.EntryType) {
	t := traits.Of(password)
	id := sessionID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry := model.HistoryEntry{
		ID:           "srv-" + strconv.Itoa(s.nextID),
		Timestamp:    time.Now().UTC().Format(model.TimestampLayout),
		Rating:       rating,
		Length:       t.Length,
		HasUppercase: t.HasUppercase,
		HasLowercase: t.HasLowercase,
		HasNumbers:   t.HasNumbers,
		HasSymbols:   t.HasSymbols,
		IsCommon:     traits.IsCommonFromFeedback(feedback),
		Type:         kind,
		Generated:    kind == model.EntryGenerated,
	}
	s.sessions[id] = append([]model.HistoryEntry{entry}, s.sessions[id]...)
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
