package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mhasan/chatwave/internal/api/middleware"
	"github.com/mhasan/chatwave/internal/config"
	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
	cfg         *config.Config
}

func NewChatHandler(chatService *service.ChatService, cfg *config.Config) *ChatHandler {
	return &ChatHandler{chatService: chatService, cfg: cfg}
}

func (h *ChatHandler) AllChatList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	users, err := h.chatService.ListOtherUsers(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"users": users})
}

func (h *ChatHandler) AllContactList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	users, err := h.chatService.ListContacts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"users": users})
}

type NewMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
	Image      string `json:"image"`
}

func (h *ChatHandler) NewMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req NewMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrMalformedPayload)
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	// Body is required unless the message is an image.
	if req.Message == "" && req.Image == "" {
		writeError(w, domain.ErrValidation)
		return
	}

	_, err = h.chatService.SendMessage(r.Context(), senderID, service.SendMessageInput{
		ReceiverID: receiverID,
		Body:       req.Message,
		Image:      req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{})
}

func (h *ChatHandler) AllConversations(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	receiverID, err := uuid.Parse(chi.URLParam(r, "receiverId"))
	if err != nil {
		writeError(w, domain.ErrValidation)
		return
	}

	messages, err := h.chatService.ListConversation(r.Context(), senderID, receiverID)
	if err != nil {
		writeError(w, err)
		return
	}

	delayResponse(r.Context(), h.cfg.ConversationResponseDelay)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"messages": messages})
}
