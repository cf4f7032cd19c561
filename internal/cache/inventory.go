package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	VozKeyPrefix    = "voz:%d"
	AvatarKeyPrefix = "avatar:user:%d"
	FeedKey         = "feed:latest"
	EcosystemsKey   = "ecosystems:all"
)

const (
	UserTTL       = 5 * time.Minute
	VozTTL        = 10 * time.Minute
	AvatarTTL     = 24 * time.Hour
	FeedTTL       = 30 * time.Second
	EcosystemsTTL = time.Hour
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func VozKey(vozID uint) string {
	return fmt.Sprintf(VozKeyPrefix, vozID)
}

// AvatarKey is the per-user avatar entry refreshed on every avatar update, so
// clients reading a cached profile still converge on the latest avatar.
func AvatarKey(userID uint) string {
	return fmt.Sprintf(AvatarKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateVoz(ctx context.Context, vozID uint) {
	Invalidate(ctx, VozKey(vozID))
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}

// SetAvatar refreshes the avatar entry for a user.
func SetAvatar(ctx context.Context, userID uint, url string) {
	if client != nil {
		client.Set(ctx, AvatarKey(userID), url, AvatarTTL)
	}
}
