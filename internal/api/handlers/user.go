package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mhasan/chatwave/internal/api/middleware"
	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Current serves the view the auth middleware already attached; no
// second store lookup.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "you are login successfully",
		"user":    user,
	})
}

type UpdateProfileRequest struct {
	FirstName  string `json:"firstName"`
	ProfilePic string `json:"profilePic"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrMalformedPayload)
		return
	}

	if req.FirstName == "" && req.ProfilePic == "" {
		writeError(w, domain.ErrValidation)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		FirstName:  req.FirstName,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout clears the token cookie. Tokens stay valid until expiry; logout
// is client-side discard.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
