package models

import (
	"time"

	"gorm.io/gorm"
)

// Voz represents a voice post in the public feed.
//
// UserName and UserAvatarURL are snapshots taken when the voz is created;
// they are never rewritten when the poster later changes their profile.
type Voz struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	UserName      string `gorm:"not null" json:"user_name"`
	UserAvatarURL string `json:"user_avatar_url"`
	AudioURL      string `gorm:"not null" json:"audio_url"`
	Caption       string `gorm:"type:text" json:"caption"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// IsLiked indicates whether the current requesting user liked this voz (computed)
	IsLiked bool `gorm:"->" json:"is_liked"`

	Comments []VozComment `gorm:"foreignKey:VozID" json:"comments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Voz) TableName() string {
	return "voces"
}

// VozLike is the durable record of a like. Counts are always derived from
// these rows, never stored, so a toggle round-trip is exact and the count
// can never go negative.
type VozLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VozID     uint      `gorm:"not null;uniqueIndex:idx_voz_like_pair" json:"voz_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_voz_like_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (VozLike) TableName() string {
	return "voz_likes"
}

// VozComment is a text comment on a voz, carrying the commenter's
// name/avatar snapshot like the voz itself.
type VozComment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VozID         uint      `gorm:"not null;index" json:"voz_id"`
	UserID        uint      `gorm:"not null" json:"user_id"`
	UserName      string    `gorm:"not null" json:"user_name"`
	UserAvatarURL string    `json:"user_avatar_url"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (VozComment) TableName() string {
	return "voz_comments"
}
