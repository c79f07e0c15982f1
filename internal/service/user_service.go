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

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileInput struct {
	FirstName  string
	ProfilePic string
}

// UpdateProfile patches only the provided fields. Email and password are
// not editable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.ProfilePic != "" {
		user.ProfilePic = input.ProfilePic
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Public(), nil
}
