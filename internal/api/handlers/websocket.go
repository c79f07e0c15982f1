package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/realtime"
	"github.com/mhasan/chatwave/internal/repository"
	"github.com/mhasan/chatwave/internal/service"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	registry    *realtime.Registry
	authService *service.AuthService
	connRepo    repository.ConnectionRepository
}

func NewWebSocketHandler(registry *realtime.Registry, authService *service.AuthService, connRepo repository.ConnectionRepository) *WebSocketHandler {
	return &WebSocketHandler{
		registry:    registry,
		authService: authService,
		connRepo:    connRepo,
	}
}

// Handle authenticates the handshake before upgrading. The token travels
// in the "token" cookie. An absent or invalid token rejects the
// connection outright; there is no anonymous mode.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("token")
	if err != nil || cookie.Value == "" {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	token, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	userID, err := h.authService.ValidateToken(token)
	if err != nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, domain.ErrUserNotFound)
			return
		}
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR [handlers.WebSocket] upgrade failed: %v", err)
		return
	}

	publicUser := user.Public()

	var client *realtime.Client
	client = realtime.NewClient(conn, publicUser, func() {
		// Stale-handle unregister is a no-op: a newer connection for the
		// same user keeps its registry entry.
		h.registry.Unregister(publicUser.ID, client.HandleID)
		h.deleteMirror(publicUser, client.HandleID)
	})

	h.registry.Register(client)
	h.upsertMirror(r, publicUser, client.HandleID)

	log.Printf("user %s connected (handle %s)", publicUser.FirstName, client.HandleID)

	go client.WritePump()
	go client.ReadPump()

	if event, err := realtime.NewEvent(realtime.EventTypeConnected, realtime.ConnectedPayload{User: publicUser}); err == nil {
		client.Send(event)
	}
}

// upsertMirror records the connection in the advisory durable mirror.
// The in-memory registry stays authoritative; failures only log.
func (h *WebSocketHandler) upsertMirror(r *http.Request, user *domain.PublicUser, handleID string) {
	clientInfo, _ := json.Marshal(map[string]string{
		"userAgent":  r.UserAgent(),
		"remoteAddr": r.RemoteAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := &domain.ConnectionRecord{
		UserID:      user.ID,
		HandleID:    handleID,
		ClientInfo:  clientInfo,
		ConnectedAt: time.Now(),
	}
	if err := h.connRepo.Upsert(ctx, record); err != nil {
		log.Printf("WARN [handlers.WebSocket] connection mirror upsert failed: %v", err)
	}
}

func (h *WebSocketHandler) deleteMirror(user *domain.PublicUser, handleID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.connRepo.Delete(ctx, user.ID, handleID); err != nil {
		log.Printf("WARN [handlers.WebSocket] connection mirror delete failed: %v", err)
	}
	log.Printf("user %s disconnected (handle %s)", user.FirstName, handleID)
}
