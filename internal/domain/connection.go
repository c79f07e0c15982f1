package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConnectionRecord is the durable mirror of a live realtime connection.
// The in-memory registry stays authoritative for delivery; this table is
// advisory and mirror writes are best-effort.
type ConnectionRecord struct {
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;primary_key"`
	HandleID    string         `json:"handleId" gorm:"not null"`
	ClientInfo  datatypes.JSON `json:"clientInfo"`
	ConnectedAt time.Time      `json:"connectedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}
