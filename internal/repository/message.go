package repository

import (
	"context"

	"friendlyvoice/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message data operations.
// Conversations are never stored; they are derived from the messages table.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.DirectMessage) error
	ListByChatKey(ctx context.Context, chatKey string) ([]models.DirectMessage, error)
	MarkRead(ctx context.Context, chatKey string, readerID uint) error
	ListInvolving(ctx context.Context, userID uint) ([]models.DirectMessage, error)
	CountUnread(ctx context.Context, chatKey string, readerID uint) (int64, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.DirectMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByChatKey returns the full conversation in chronological order. Both
// participants see the identical sequence because the chat key is canonical.
func (r *messageRepository) ListByChatKey(ctx context.Context, chatKey string) ([]models.DirectMessage, error) {
	var msgs []models.DirectMessage
	err := r.db.WithContext(ctx).
		Where("chat_key = ?", chatKey).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// MarkRead marks every message in the conversation addressed to readerID as read.
func (r *messageRepository) MarkRead(ctx context.Context, chatKey string, readerID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.DirectMessage{}).
		Where("chat_key = ? AND recipient_id = ? AND is_read = ?", chatKey, readerID, false).
		Update("is_read", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListInvolving returns every message the user sent or received, newest
// first; callers fold it into per-chat summaries.
func (r *messageRepository) ListInvolving(ctx context.Context, userID uint) ([]models.DirectMessage, error) {
	var msgs []models.DirectMessage
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, chatKey string, readerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DirectMessage{}).
		Where("chat_key = ? AND recipient_id = ? AND is_read = ?", chatKey, readerID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
