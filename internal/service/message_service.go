package service

import (
	"context"
	"log/slog"
	"strings"

	"friendlyvoice/internal/featureflags"
	"friendlyvoice/internal/middleware"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/notifications"
	"friendlyvoice/internal/repository"

	"github.com/google/uuid"
)

// FlagRealtimeDM gates websocket push delivery of direct messages.
const FlagRealtimeDM = "realtime_dm"

// MessageService provides direct voice message business logic. Messaging is
// gated on a mutual follow between the two users.
type MessageService struct {
	msgRepo    repository.MessageRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	notifier   *notifications.Notifier
	flags      *featureflags.Manager
}

// NewMessageService returns a new MessageService.
func NewMessageService(
	msgRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notifier *notifications.Notifier,
	flags *featureflags.Manager,
) *MessageService {
	return &MessageService{
		msgRepo:    msgRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		notifier:   notifier,
		flags:      flags,
	}
}

func (s *MessageService) requireMutual(ctx context.Context, userID, partnerID uint) error {
	a, err := s.followRepo.IsFollowing(ctx, userID, partnerID)
	if err != nil {
		return err
	}
	b, err := s.followRepo.IsFollowing(ctx, partnerID, userID)
	if err != nil {
		return err
	}
	if !a || !b {
		return models.NewForbiddenError("Direct messages require a mutual follow")
	}
	return nil
}

// SendDirectMessage stores a voice message for a mutual follow and publishes
// a push event so the recipient's open connections see it immediately.
func (s *MessageService) SendDirectMessage(ctx context.Context, senderID, recipientID uint, voiceURL string) (*models.DirectMessage, error) {
	if strings.TrimSpace(voiceURL) == "" {
		return nil, models.NewValidationError("Voice URL is required")
	}
	if senderID == recipientID {
		return nil, models.NewValidationError("Cannot send a message to yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}
	if err := s.requireMutual(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	msg := &models.DirectMessage{
		ID:          uuid.NewString(),
		ChatKey:     models.ChatID(senderID, recipientID),
		SenderID:    senderID,
		RecipientID: recipientID,
		VoiceURL:    voiceURL,
		IsRead:      false,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	middleware.DirectMessagesSent.Inc()

	if s.notifier != nil && s.flags.Enabled(FlagRealtimeDM, recipientID) {
		// Push is best-effort; the message is durable either way.
		if err := s.notifier.PublishUserEvent(ctx, recipientID, notifications.NewMessageEvent(msg)); err != nil {
			middleware.Logger.WarnContext(ctx, "dm push publish failed",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return msg, nil
}

// GetDirectMessages returns the full conversation with the partner in
// chronological order. Viewing the conversation marks the partner's messages
// to the caller as read.
func (s *MessageService) GetDirectMessages(ctx context.Context, userID, partnerID uint) ([]models.DirectMessage, error) {
	if userID == partnerID {
		return nil, models.NewValidationError("Cannot open a conversation with yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}

	chatKey := models.ChatID(userID, partnerID)
	if err := s.msgRepo.MarkRead(ctx, chatKey, userID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListByChatKey(ctx, chatKey)
}

// ListChats derives the caller's conversation summaries: latest message per
// distinct chat, with the unread count of messages addressed to the caller.
// Chats are never stored.
func (s *MessageService) ListChats(ctx context.Context, userID uint) ([]models.Chat, error) {
	msgs, err := s.msgRepo.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	// msgs are newest-first, so the first message seen per chat is latest.
	order := make([]string, 0)
	chats := make(map[string]*models.Chat)
	for i := range msgs {
		m := msgs[i]
		c, ok := chats[m.ChatKey]
		if !ok {
			partnerID := m.SenderID
			if partnerID == userID {
				partnerID = m.RecipientID
			}
			c = &models.Chat{
				ID:          m.ChatKey,
				PartnerID:   partnerID,
				LastMessage: m,
				UpdatedAt:   m.CreatedAt,
			}
			chats[m.ChatKey] = c
			order = append(order, m.ChatKey)
		}
		if m.RecipientID == userID && !m.IsRead {
			c.UnreadCount++
		}
	}

	partnerIDs := make([]uint, 0, len(order))
	for _, key := range order {
		partnerIDs = append(partnerIDs, chats[key].PartnerID)
	}
	partners, err := s.userRepo.GetByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uint]string, len(partners))
	for _, p := range partners {
		nameByID[p.ID] = p.Name
	}

	out := make([]models.Chat, 0, len(order))
	for _, key := range order {
		c := chats[key]
		c.PartnerName = nameByID[c.PartnerID]
		out = append(out, *c)
	}
	return out, nil
}
