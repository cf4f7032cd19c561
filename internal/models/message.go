package models

import (
	"fmt"
	"time"
)

// ChatID returns the canonical conversation key for two users. The smaller
// numeric ID always comes first, so ChatID(a, b) == ChatID(b, a).
func ChatID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// DirectMessage is a single voice message between two mutually-following
// users. ChatKey is the canonical ChatID of the pair, set before insert.
type DirectMessage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ChatKey     string    `gorm:"not null;index" json:"chat_id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	VoiceURL    string    `gorm:"not null" json:"voice_url"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (DirectMessage) TableName() string {
	return "direct_messages"
}

// Chat is a derived conversation summary. It is never stored: each Chat is
// materialized from the latest message per distinct chat key involving the
// viewer.
type Chat struct {
	ID          string        `json:"id"`
	PartnerID   uint          `json:"partner_id"`
	PartnerName string        `json:"partner_name"`
	LastMessage DirectMessage `json:"last_message"`
	UnreadCount int           `json:"unread_count"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
