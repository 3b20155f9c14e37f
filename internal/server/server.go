// Package server implements the development stub backend: the REST surface
// the client speaks, backed by SQLite, with JWT login and Prometheus
// metrics. It exists so the client can be exercised end to end without the
// real API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/storage"
)

// Server holds the stub backend's dependencies.
type Server struct {
	store     storage.Store
	accounts  *auth.Accounts
	jwt       *auth.JWTManager
	metrics   *Metrics
	uploadDir string
}

// New wires a stub server. Uploaded receipts are kept under uploadDir and
// served back from /uploads/.
func New(store storage.Store, jwtManager *auth.JWTManager, uploadDir string) *Server {
	return &Server{
		store:     store,
		accounts:  auth.NewAccounts(store),
		jwt:       jwtManager,
		metrics:   NewMetrics(),
		uploadDir: uploadDir,
	}
}

// Handler builds the server's routing table wrapped in logging and CORS
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /bills", s.requireAuth(s.handleListBills))
	mux.HandleFunc("POST /bills", s.requireAuth(s.handleCreateBill))
	mux.HandleFunc("PATCH /bills/{id}", s.requireAuth(s.handleUpdateBill))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withLogging(withCORS(mux))
}

// handleLogin verifies credentials against the user table and issues a JWT.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	user, err := s.accounts.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		s.metrics.loginAttempts.WithLabelValues("failure").Inc()
		slog.Warn("login rejected", "email", payload.Email)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.metrics.loginAttempts.WithLabelValues("success").Inc()
	slog.Info("login succeeded", "email", user.Email, "type", user.Type)
	writeJSON(w, http.StatusOK, map[string]string{"jwt": token})
}

// handleCreateUser registers a new account from the client's create-account
// payload.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type     models.Role `json:"type"`
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user payload")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user := &models.User{
		Type:  payload.Type,
		Name:  payload.Name,
		Email: payload.Email,
	}
	if err := s.accounts.Register(r.Context(), user, payload.Password); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		slog.Error("user creation failed", "email", payload.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	slog.Info("user created", "email", user.Email, "type", user.Type)
	writeJSON(w, http.StatusCreated, user)
}

// handleListBills returns every stored bill, oldest first.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.store.ListBills(r.Context())
	if err != nil {
		slog.Error("list bills failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bills")
		return
	}
	if bills == nil {
		bills = []storage.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

// handleCreateBill accepts a receipt upload and opens a draft bill for it.
func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing receipt file")
		return
	}
	defer file.Close()

	email := r.FormValue("email")
	if email == "" {
		if claims := claimsFrom(r.Context()); claims != nil {
			email = claims.Email
		}
	}

	fileName := filepath.Base(header.Filename)
	stored := uuid.New().String() + "-" + fileName
	if err := s.saveUpload(stored, file); err != nil {
		slog.Error("receipt save failed", "file", fileName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store receipt")
		return
	}

	bill := &storage.Bill{
		Email:    email,
		FileURL:  "/uploads/" + stored,
		FileName: fileName,
	}
	if err := s.store.CreateBill(r.Context(), bill); err != nil {
		slog.Error("bill creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create bill")
		return
	}

	slog.Info("bill created", "bill_id", bill.ID, "email", email, "file", fileName)
	writeJSON(w, http.StatusCreated, map[string]string{
		"fileUrl": bill.FileURL,
		"key":     bill.ID,
	})
}

// handleUpdateBill replaces the fields of an existing bill with the
// submitted record.
func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("id")

	existing, err := s.store.GetBill(r.Context(), billID)
	if err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		slog.Error("bill lookup failed", "bill_id", billID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load bill")
		return
	}

	updated := *existing
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill payload")
		return
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateBill(r.Context(), &updated); err != nil {
		slog.Error("bill update failed", "bill_id", billID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update bill")
		return
	}

	slog.Info("bill updated", "bill_id", billID, "status", updated.Status)
	writeJSON(w, http.StatusOK, updated)
}

// saveUpload writes an uploaded receipt into the upload directory.
func (s *Server) saveUpload(name string, file io.Reader) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
