package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once created. There is no edit or delete
// operation anywhere in the API.
type Message struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SenderID   uuid.UUID `json:"senderId" gorm:"type:uuid;not null;index:idx_messages_pair"`
	ReceiverID uuid.UUID `json:"receiverId" gorm:"type:uuid;not null;index:idx_messages_pair"`
	Body       string    `json:"message"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	Sender   *User `json:"-" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"-" gorm:"foreignKey:ReceiverID"`
}
