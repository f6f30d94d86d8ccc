package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one role-tagged turn in a user's conversation history.
// Messages are append-only; Position fixes the insertion order.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null;column:user_id" json:"-"`
	Role      string    `gorm:"not null;column:role" json:"role"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	Position  int       `gorm:"not null;column:position" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}

func NewChatMessage(userID int64, role, content string, position int) ChatMessage {
	return ChatMessage{
		ID:       uuid.New(),
		UserID:   userID,
		Role:     role,
		Content:  content,
		Position: position,
	}
}
