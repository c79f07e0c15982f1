package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mhasan/chatwave/internal/domain"
)

// Registry maps an authenticated user id to its single live connection.
// At most one entry per user: a second device registering the same user
// replaces the previous entry (last write wins). All mutations are
// synchronous; no cross-key coordination is needed.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register overwrites any prior entry for the client's user id. It never
// errors on an existing entry.
func (r *Registry) Register(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.UserID] = client
}

// Lookup returns the current live client for a user, or nil. Absence
// means "no live delivery possible", not an error.
func (r *Registry) Lookup(userID uuid.UUID) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// Unregister removes the entry only while it still points at the given
// handle. A stale handle is a no-op: disconnect of an old connection may
// race re-registration from a newer one.
func (r *Registry) Unregister(userID uuid.UUID, handleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.clients[userID]; ok && current.HandleID == handleID {
		delete(r.clients, userID)
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// NotifyNewMessage pushes a newMessage event carrying the sender's public
// view to the receiver's live connection, if any. Delivery is best-effort:
// no live connection, a marshal failure or a full send buffer all count
// as "skipped", never as an error for the message itself.
func (r *Registry) NotifyNewMessage(receiverID uuid.UUID, sender *domain.PublicUser) {
	client := r.Lookup(receiverID)
	if client == nil {
		return
	}

	event, err := NewEvent(EventTypeNewMessage, NewMessagePayload{User: sender})
	if err != nil {
		log.Printf("ERROR [realtime.Registry] failed to build newMessage event: %v", err)
		return
	}

	if !client.Send(event) {
		log.Printf("WARN [realtime.Registry] dropping newMessage for user %s: send buffer full", receiverID)
	}
}
