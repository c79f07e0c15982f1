package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mhasan/chatwave/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	GetAllExcept(ctx context.Context, id uuid.UUID) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetConversation(ctx context.Context, userA, userB uuid.UUID) ([]*domain.Message, error)
	GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Message, error)
}

// ConnectionRepository mirrors the in-memory connection registry into the
// database. The mirror is advisory; callers treat failures as non-fatal.
type ConnectionRepository interface {
	Upsert(ctx context.Context, record *domain.ConnectionRecord) error
	Delete(ctx context.Context, userID uuid.UUID, handleID string) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ConnectionRecord, error)
}

type Repositories struct {
	User       UserRepository
	Message    MessageRepository
	Connection ConnectionRepository
}
