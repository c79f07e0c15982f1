package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"net/url"

	"github.com/mhasan/chatwave/internal/config"
	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    *domain.PublicUser `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrMalformedPayload)
		return
	}

	if req.FirstName == "" || req.Email == "" || len(req.Password) < 6 {
		writeError(w, domain.ErrValidation)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	_, err := h.authService.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	delayResponse(r.Context(), h.cfg.SignupResponseDelay)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "register successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrMalformedPayload)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, domain.ErrValidation)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// The realtime handshake reads the token back from this cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    url.QueryEscape(result.Token),
		Path:     "/",
		MaxAge:   h.cfg.JWTExpirationHours * 3600,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	delayResponse(r.Context(), h.cfg.SignupResponseDelay)
	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Logged in successfully",
		Token:   result.Token,
		User:    result.User.Public(),
	})
}
