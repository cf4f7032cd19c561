package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedProfile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestAsideFetchesOnMissAndServesOnHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			*dest = cachedProfile{ID: 1, Name: "Ana Pérez"}
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "Ana Pérez", first.Name)

	var second cachedProfile
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "hit must not call fetch")
	assert.Equal(t, first, second)
}

func TestAsideFetchErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	var dest cachedProfile
	boom := errors.New("db down")
	err := Aside(context.Background(), UserKey(2), &dest, UserTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestAsideWithoutRedisAlwaysFetches(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var dest cachedProfile
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), UserKey(3), &dest, UserTTL, func() error {
			fetches++
			dest = cachedProfile{ID: 3}
			return nil
		}))
	}
	assert.Equal(t, 2, fetches)
}

func TestInvalidateRemovesEntry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, VozKey(7), cachedProfile{ID: 7}, VozTTL))
	require.True(t, mr.Exists("voz:7"))

	InvalidateVoz(ctx, 7)
	assert.False(t, mr.Exists("voz:7"))
}

func TestSetAvatarUsesLongTTL(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	SetAvatar(ctx, 5, "https://cdn.example.com/a.png")
	require.True(t, mr.Exists("avatar:user:5"))

	mr.FastForward(23 * time.Hour)
	assert.True(t, mr.Exists("avatar:user:5"))
	mr.FastForward(2 * time.Hour)
	assert.False(t, mr.Exists("avatar:user:5"))
}
