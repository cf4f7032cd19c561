// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StringList is a []string stored as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// User represents a user in the FriendlyVoice application.
// Follow relationships are stored in the follows table (see Follow); the
// follower/following fields here are computed views over it.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"unique;not null" json:"email"`
	Password        string     `json:"-"`
	AvatarURL       string     `json:"avatar_url"`
	Bio             string     `gorm:"type:text" json:"bio"`
	BioSoundURL     string     `json:"bio_sound_url"`
	Interests       StringList `gorm:"type:text" json:"interests"`
	PersonalityTags StringList `gorm:"type:text" json:"personality_tags"`

	VoiceSamples []VoiceSample `gorm:"foreignKey:UserID" json:"voice_samples,omitempty"`

	// Computed at query time, never persisted.
	FollowersCount int    `gorm:"-" json:"followers_count"`
	FollowingCount int    `gorm:"-" json:"following_count"`
	Followers      []uint `gorm:"-" json:"followers,omitempty"`
	Following      []uint `gorm:"-" json:"following,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PlaceholderAvatarURL returns the deterministic default avatar assigned at
// signup. A user whose avatar still matches this URL has not generated a
// voice avatar yet and should be routed through onboarding.
func PlaceholderAvatarURL(email string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200", email)
}

// HasPlaceholderAvatar reports whether the user's avatar is still the
// generated default.
func (u *User) HasPlaceholderAvatar() bool {
	return u.AvatarURL == "" || u.AvatarURL == PlaceholderAvatarURL(u.Email)
}

// NeedsOnboarding reports whether the user should be routed to onboarding:
// no generated avatar yet, or no audio biography recorded.
func (u *User) NeedsOnboarding() bool {
	return u.HasPlaceholderAvatar() || u.BioSoundURL == ""
}

// VoiceSample is a short titled voice recording attached to a user profile.
type VoiceSample struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
