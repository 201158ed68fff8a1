package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	domain "authgate/backend/internal/domain/auth"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Msg  string       `json:"msg"`
	User *domain.User `json:"user"`
}

type loginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

func (s *Server) registerRoutes() {
	s.router.Handle("/{$}", http.HandlerFunc(s.handleRoot))
	s.router.Handle("/register", http.HandlerFunc(s.handleRegister))
	s.router.Handle("/login", http.HandlerFunc(s.handleLogin))
	s.router.Handle("/metrics", s.metrics.Handler())

	authenticated := s.authMiddleware
	s.router.Handle("/protected", authenticated(http.HandlerFunc(s.handleProtected)))

	s.router.Handle("/", http.HandlerFunc(s.handleNotFound))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeMessage(w, http.StatusOK, "OK")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "resource not found")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload registerRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := s.authService.Register(r.Context(), domain.Registration{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			s.metrics.RecordRegistration("invalid")
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrEmailExists):
			s.metrics.RecordRegistration("conflict")
			writeMessage(w, http.StatusUnprocessableEntity, "email already registered, please use another one")
		default:
			s.metrics.RecordRegistration("error")
			s.logger.ErrorContext(r.Context(), "register failed", "error", err)
			writeServerError(w)
		}
		return
	}

	s.metrics.RecordRegistration("created")
	s.logger.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, registerResponse{Msg: "user created", User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload loginRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	token, user, err := s.authService.Login(r.Context(), domain.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			s.metrics.RecordLogin("invalid")
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrUserNotFound):
			s.metrics.RecordLogin("not_found")
			writeMessage(w, http.StatusNotFound, "user not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			s.metrics.RecordLogin("invalid_password")
			writeMessage(w, http.StatusUnprocessableEntity, "invalid password")
		default:
			s.metrics.RecordLogin("error")
			s.logger.ErrorContext(r.Context(), "login failed", "error", err)
			writeServerError(w)
		}
		return
	}

	s.metrics.RecordLogin("success")
	s.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{Msg: "authentication successful", Token: token})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	ac, ok := domain.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "access denied")
		return
	}

	user, err := s.authService.Profile(r.Context(), ac.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "profile lookup failed", "user_id", ac.UserID, "error", err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// decodeJSON reads the request body into dst. An empty body decodes to the
// zero value so missing fields surface as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}
