package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/repository"
	"gorm.io/gorm"
)

// Notifier delivers a best-effort "new message" push to a live
// connection. The connection registry satisfies this; tests substitute a
// capturing fake.
type Notifier interface {
	NotifyNewMessage(receiverID uuid.UUID, sender *domain.PublicUser)
}

type ChatService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	notifier    Notifier
}

func NewChatService(userRepo repository.UserRepository, messageRepo repository.MessageRepository, notifier Notifier) *ChatService {
	return &ChatService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// ListOtherUsers returns every user except the caller. Full scan, no
// pagination.
func (s *ChatService) ListOtherUsers(ctx context.Context, callerID uuid.UUID) ([]*domain.PublicUser, error) {
	users, err := s.userRepo.GetAllExcept(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return publicViews(users), nil
}

// ListContacts returns the distinct set of users the caller has exchanged
// at least one message with. Set semantics; order is unspecified.
func (s *ChatService) ListContacts(ctx context.Context, callerID uuid.UUID) ([]*domain.PublicUser, error) {
	messages, err := s.messageRepo.GetByParticipant(ctx, callerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	var counterpartyIDs []uuid.UUID
	for _, msg := range messages {
		other := msg.SenderID
		if other == callerID {
			other = msg.ReceiverID
		}
		if !seen[other] {
			seen[other] = true
			counterpartyIDs = append(counterpartyIDs, other)
		}
	}

	if len(counterpartyIDs) == 0 {
		return []*domain.PublicUser{}, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, counterpartyIDs)
	if err != nil {
		return nil, err
	}
	return publicViews(users), nil
}

type SendMessageInput struct {
	ReceiverID uuid.UUID
	Body       string
	Image      string
}

// SendMessage verifies the receiver exists, persists the message, then
// notifies the receiver's live connection if there is one. The existence
// check runs before the write; there is no cross-document transaction, so
// a receiver deleted in between is an accepted race.
func (s *ChatService) SendMessage(ctx context.Context, senderID uuid.UUID, input SendMessageInput) (*domain.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	message := &domain.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Body:       input.Body,
		Image:      input.Image,
		CreatedAt:  time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Best-effort push. A failed sender lookup only skips the
	// notification; the message is already sent.
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		s.notifier.NotifyNewMessage(input.ReceiverID, sender.Public())
	}

	return message, nil
}

// ListConversation returns all messages between the two users in either
// direction, ordered by creation time.
func (s *ChatService) ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]*domain.Message, error) {
	return s.messageRepo.GetConversation(ctx, userA, userB)
}

func publicViews(users []*domain.User) []*domain.PublicUser {
	views := make([]*domain.PublicUser, 0, len(users))
	for _, u := range users {
		views = append(views, u.Public())
	}
	return views
}
