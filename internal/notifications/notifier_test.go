package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"friendlyvoice/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotifierRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestUserChannelNaming(t *testing.T) {
	assert.Equal(t, "dm:user:42", UserChannel(42))
	assert.Equal(t, "dm:user:0", UserChannel(0))
}

func TestNewMessageEventEnvelope(t *testing.T) {
	msg := &models.DirectMessage{
		ID:          "11111111-2222-3333-4444-555555555555",
		ChatKey:     models.ChatID(1, 2),
		SenderID:    1,
		RecipientID: 2,
		VoiceURL:    "https://cdn.example.com/v.mp3",
	}

	payload, err := json.Marshal(NewMessageEvent(msg))
	require.NoError(t, err)

	var decoded struct {
		Type    string               `json:"type"`
		Payload models.DirectMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "direct_message", decoded.Type)
	assert.Equal(t, msg.ID, decoded.Payload.ID)
	assert.Equal(t, "1:2", decoded.Payload.ChatKey)
}

func TestNotifierIsNoOpWithoutRedis(t *testing.T) {
	n := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, n.PublishUser(ctx, 1, "hola"))
	assert.NoError(t, n.PublishBroadcast(ctx, "hola"))
	assert.NoError(t, n.StartPatternSubscriber(ctx, func(string, string) {
		t.Fatal("no subscription should exist without redis")
	}))
}

func TestNotifierRoundTrip(t *testing.T) {
	rdb := setupNotifierRedis(t)
	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan [2]string, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		received <- [2]string{channel, payload}
	}))

	// PSubscribe needs a moment to be registered before the publish.
	require.Eventually(t, func() bool {
		err := n.PublishUserEvent(ctx, 7, NewMessageEvent(&models.DirectMessage{
			ID: "m1", SenderID: 1, RecipientID: 7, VoiceURL: "https://cdn.example.com/v.mp3",
		}))
		if err != nil {
			return false
		}
		select {
		case got := <-received:
			assert.Equal(t, UserChannel(7), got[0])
			assert.Contains(t, got[1], `"direct_message"`)
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPresenceLocalCounts(t *testing.T) {
	p := NewPresence(nil)
	defer p.Stop()
	ctx := context.Background()

	assert.False(t, p.IsOnline(ctx, 1))

	// Two connections for the same user, one closing keeps them online.
	p.Register(ctx, 1)
	p.Register(ctx, 1)
	assert.True(t, p.IsOnline(ctx, 1))

	p.Unregister(ctx, 1)
	assert.True(t, p.IsOnline(ctx, 1))

	p.Unregister(ctx, 1)
	assert.False(t, p.IsOnline(ctx, 1))
}

func TestPresenceSharedThroughRedis(t *testing.T) {
	rdb := setupNotifierRedis(t)
	writer := NewPresence(rdb)
	defer writer.Stop()
	reader := NewPresence(rdb)
	defer reader.Stop()
	ctx := context.Background()

	writer.Register(ctx, 9)
	assert.True(t, reader.IsOnline(ctx, 9), "presence visible from another instance")

	writer.Unregister(ctx, 9)
	assert.False(t, reader.IsOnline(ctx, 9))
}
