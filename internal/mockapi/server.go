// Package mockapi is an in-memory implementation of the LearnPath backend
// used for local development and tests.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/learnpath/internal/progress"
)

// SessionCookie is the name of the HTTP-only session cookie.
const SessionCookie = "learnpath_session"

type account struct {
	ID         string
	Name       string
	Email      string
	Hash       []byte
	Progress   progress.Progress
	Streak     int
	LastActive time.Time
}

type userResponse struct {
	ID         string            `json:"_id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Progress   progress.Progress `json:"progress"`
	Streak     int               `json:"streak"`
	LastActive string            `json:"lastActive,omitempty"`
}

type stepBody struct {
	Title     string   `json:"title"`
	Checklist []string `json:"checklist"`
}

type skillRecord struct {
	ID          string     `json:"_id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Steps       []stepBody `json:"steps"`
}

// Server holds all backend state in memory. It is safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // by email
	sessions map[string]string   // token -> email
	skills   map[string]*skillRecord
	order    []string
	now      func() time.Time
	router   *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for streak tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates an empty backend.
func New(opts ...Option) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
		skills:   make(map[string]*skillRecord),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/users/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/users/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/users/profile", s.requireSession(s.handleGetProfile)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/profile", s.requireSession(s.handleUpdateProfile)).Methods(http.MethodPut)
	r.HandleFunc("/api/skills", s.handleListSkills).Methods(http.MethodGet)
	r.HandleFunc("/api/skills", s.requireSession(s.handleCreateSkill)).Methods(http.MethodPost)
	r.HandleFunc("/api/skills/{id}", s.requireSession(s.handleUpdateSkill)).Methods(http.MethodPut)
	r.HandleFunc("/api/skills/{id}", s.requireSession(s.handleDeleteSkill)).Methods(http.MethodDelete)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddUser creates an account directly, bypassing the register endpoint.
func (s *Server) AddUser(name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[normalizeEmail(email)] = &account{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    normalizeEmail(email),
		Hash:     hash,
		Progress: progress.Progress{},
	}
	return nil
}

// UserProgress returns a copy of the stored progress for email.
func (s *Server) UserProgress(email string) (progress.Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return nil, false
	}
	return acct.Progress.Clone(), true
}

type contextHandler func(w http.ResponseWriter, r *http.Request, acct *account)

// requireSession resolves the session cookie to an account or replies 401.
func (s *Server) requireSession(next contextHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		s.mu.Lock()
		email, ok := s.sessions[c.Value]
		var acct *account
		if ok {
			acct = s.accounts[email]
		}
		s.mu.Unlock()
		if acct == nil {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		next(w, r, acct)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide name, email and password")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	email := normalizeEmail(req.Email)
	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	acct := &account{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Hash:       hash,
		Progress:   progress.Progress{},
		Streak:     1,
		LastActive: s.now(),
	}
	s.accounts[email] = acct
	token := s.startSession(email)
	resp := toResponse(acct)
	s.mu.Unlock()

	setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)
	s.mu.Lock()
	acct, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.Hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.mu.Lock()
	s.touch(acct)
	token := s.startSession(email)
	resp := toResponse(acct)
	s.mu.Unlock()

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, acct *account) {
	s.mu.Lock()
	s.touch(acct)
	resp := toResponse(acct)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, acct *account) {
	var req struct {
		Name     string            `json:"name"`
		Progress progress.Progress `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	if name := strings.TrimSpace(req.Name); name != "" {
		acct.Name = name
	}
	if req.Progress != nil {
		acct.Progress = req.Progress.Clone()
	}
	s.touch(acct)
	resp := toResponse(acct)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]skillRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.skills[id])
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func decodeSkill(r *http.Request) (skillRecord, string) {
	var rec skillRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return rec, "Invalid request body"
	}
	if strings.TrimSpace(rec.Key) == "" || strings.TrimSpace(rec.Name) == "" {
		return rec, "Skill key and name are required"
	}
	return rec, ""
}

func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request, _ *account) {
	rec, msg := decodeSkill(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	for _, existing := range s.skills {
		if existing.Key == rec.Key {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "Skill already exists")
			return
		}
	}
	rec.ID = uuid.NewString()
	s.skills[rec.ID] = &rec
	s.order = append(s.order, rec.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request, _ *account) {
	id := mux.Vars(r)["id"]
	rec, msg := decodeSkill(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	if _, ok := s.skills[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	rec.ID = id
	s.skills[id] = &rec
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request, _ *account) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	if _, ok := s.skills[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	delete(s.skills, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Skill removed"})
}

// startSession issues a new session token. Caller must hold s.mu.
func (s *Server) startSession(email string) string {
	token := uuid.NewString()
	s.sessions[token] = email
	return token
}

// touch updates the activity streak. Caller must hold s.mu.
func (s *Server) touch(acct *account) {
	acct.Streak, acct.LastActive = nextStreak(acct.Streak, acct.LastActive, s.now())
}

func toResponse(acct *account) userResponse {
	resp := userResponse{
		ID:       acct.ID,
		Name:     acct.Name,
		Email:    acct.Email,
		Progress: acct.Progress.Clone(),
		Streak:   acct.Streak,
	}
	if resp.Progress == nil {
		resp.Progress = progress.Progress{}
	}
	if !acct.LastActive.IsZero() {
		resp.LastActive = acct.LastActive.UTC().Format(time.RFC3339)
	}
	return resp
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
