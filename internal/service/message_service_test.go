package service

import (
	"context"
	"fmt"
	"testing"

	"friendlyvoice/internal/featureflags"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type messageFixture struct {
	svc    *MessageService
	db     *gorm.DB
	ana    *models.User
	carlos *models.User
	laura  *models.User
}

func newMessageFixture(t *testing.T) *messageFixture {
	db := setupServiceDB(t)
	msgRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	svc := NewMessageService(msgRepo, userRepo, followRepo, nil, featureflags.NewManager(""))

	f := &messageFixture{
		svc:    svc,
		db:     db,
		ana:    createTestUser(t, db, "Ana Pérez", "ana@example.com"),
		carlos: createTestUser(t, db, "Carlos López", "carlos@example.com"),
		laura:  createTestUser(t, db, "Laura García", "laura@example.com"),
	}

	// ana <-> carlos are mutual; laura follows ana one-way.
	ctx := context.Background()
	require.NoError(t, followRepo.Follow(ctx, f.ana.ID, f.carlos.ID))
	require.NoError(t, followRepo.Follow(ctx, f.carlos.ID, f.ana.ID))
	require.NoError(t, followRepo.Follow(ctx, f.laura.ID, f.ana.ID))
	return f
}

func TestMessageService_RequiresMutualFollow(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t)
	ctx := context.Background()

	// One-way follow is not enough, in either direction.
	_, err := f.svc.SendDirectMessage(ctx, f.laura.ID, f.ana.ID, "https://cdn.example.com/v.mp3")
	assertAppErrorCode(t, err, "FORBIDDEN")

	_, err = f.svc.SendDirectMessage(ctx, f.ana.ID, f.laura.ID, "https://cdn.example.com/v.mp3")
	assertAppErrorCode(t, err, "FORBIDDEN")

	// No relationship at all.
	_, err = f.svc.SendDirectMessage(ctx, f.carlos.ID, f.laura.ID, "https://cdn.example.com/v.mp3")
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestMessageService_SendValidation(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendDirectMessage(ctx, f.ana.ID, f.carlos.ID, "  ")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	_, err = f.svc.SendDirectMessage(ctx, f.ana.ID, f.ana.ID, "https://cdn.example.com/v.mp3")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	_, err = f.svc.SendDirectMessage(ctx, f.ana.ID, 999, "https://cdn.example.com/v.mp3")
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestMessageService_ConversationIsSharedAndOrdered(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.SendDirectMessage(ctx, f.ana.ID, f.carlos.ID,
			fmt.Sprintf("https://cdn.example.com/ana-%d.mp3", i))
		require.NoError(t, err)
	}
	_, err := f.svc.SendDirectMessage(ctx, f.carlos.ID, f.ana.ID, "https://cdn.example.com/carlos-0.mp3")
	require.NoError(t, err)

	anaView, err := f.svc.GetDirectMessages(ctx, f.ana.ID, f.carlos.ID)
	require.NoError(t, err)
	carlosView, err := f.svc.GetDirectMessages(ctx, f.carlos.ID, f.ana.ID)
	require.NoError(t, err)

	// Both participants see the same conversation in the same order.
	require.Len(t, anaView, 4)
	require.Len(t, carlosView, 4)
	for i := range anaView {
		assert.Equal(t, anaView[i].ID, carlosView[i].ID)
	}
	assert.Equal(t, "https://cdn.example.com/ana-0.mp3", anaView[0].VoiceURL)
	assert.Equal(t, "https://cdn.example.com/carlos-0.mp3", anaView[3].VoiceURL)
}

func TestMessageService_ChatsAndUnreadCounts(t *testing.T) {
	t.Parallel()
	f := newMessageFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendDirectMessage(ctx, f.ana.ID, f.carlos.ID, "https://cdn.example.com/1.mp3")
	require.NoError(t, err)
	_, err = f.svc.SendDirectMessage(ctx, f.ana.ID, f.carlos.ID, "https://cdn.example.com/2.mp3")
	require.NoError(t, err)

	chats, err := f.svc.ListChats(ctx, f.carlos.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, f.ana.ID, chats[0].PartnerID)
	assert.Equal(t, "Ana Pérez", chats[0].PartnerName)
	assert.Equal(t, 2, chats[0].UnreadCount)
	assert.Equal(t, "https://cdn.example.com/2.mp3", chats[0].LastMessage.VoiceURL)

	// The sender has nothing unread.
	senderChats, err := f.svc.ListChats(ctx, f.ana.ID)
	require.NoError(t, err)
	require.Len(t, senderChats, 1)
	assert.Equal(t, 0, senderChats[0].UnreadCount)

	// Opening the conversation marks it read.
	_, err = f.svc.GetDirectMessages(ctx, f.carlos.ID, f.ana.ID)
	require.NoError(t, err)

	chats, err = f.svc.ListChats(ctx, f.carlos.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, 0, chats[0].UnreadCount)
}
