package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName    string    `json:"firstName" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	ProfilePic   string    `json:"profilePic"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the client-safe view of a user. It never carries the
// password hash or the audit timestamps.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		FirstName:  u.FirstName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}
