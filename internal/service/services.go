package service

import (
	"github.com/mhasan/chatwave/internal/config"
	"github.com/mhasan/chatwave/internal/repository"
)

type Services struct {
	Auth *AuthService
	User *UserService
	Chat *ChatService
}

func NewServices(repos *repository.Repositories, notifier Notifier, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, cfg),
		User: NewUserService(repos.User),
		Chat: NewChatService(repos.User, repos.Message, notifier),
	}
}
