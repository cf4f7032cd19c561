package repository

import (
	"context"
	"errors"

	"friendlyvoice/internal/cache"
	"friendlyvoice/internal/models"

	"gorm.io/gorm"
)

// VozRepository defines the interface for voice post data operations
type VozRepository interface {
	Create(ctx context.Context, voz *models.Voz) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Voz, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Voz, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Voz, error)
	IsLiked(ctx context.Context, userID, vozID uint) (bool, error)
	Like(ctx context.Context, userID, vozID uint) error
	Unlike(ctx context.Context, userID, vozID uint) error
	AddComment(ctx context.Context, comment *models.VozComment) error
	GetComments(ctx context.Context, vozID uint) ([]models.VozComment, error)
}

// vozRepository implements VozRepository
type vozRepository struct {
	db *gorm.DB
}

// NewVozRepository creates a new voz repository
func NewVozRepository(db *gorm.DB) VozRepository {
	return &vozRepository{db: db}
}

func (r *vozRepository) Create(ctx context.Context, voz *models.Voz) error {
	if err := r.db.WithContext(ctx).Create(voz).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// applyVozDetails adds subqueries to fetch counts and liked status in a single query.
func (r *vozRepository) applyVozDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "voces.*, " +
		"(SELECT COUNT(*) FROM voz_comments WHERE voz_comments.voz_id = voces.id) as comments_count, " +
		"(SELECT COUNT(*) FROM voz_likes WHERE voz_likes.voz_id = voces.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM voz_likes WHERE voz_likes.voz_id = voces.id AND voz_likes.user_id = ?) as is_liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as is_liked")
}

func (r *vozRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Voz, error) {
	var voz models.Voz
	err := r.applyVozDetails(r.db.WithContext(ctx), currentUserID).
		First(&voz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Voz", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &voz, nil
}

func (r *vozRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Voz, error) {
	var voces []*models.Voz
	err := r.applyVozDetails(r.db.WithContext(ctx), currentUserID).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&voces).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return voces, nil
}

// List materializes the feed: newest first.
func (r *vozRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Voz, error) {
	var voces []*models.Voz
	err := r.applyVozDetails(r.db.WithContext(ctx), currentUserID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&voces).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return voces, nil
}

func (r *vozRepository) IsLiked(ctx context.Context, userID, vozID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.VozLike{}).
		Where("user_id = ? AND voz_id = ?", userID, vozID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *vozRepository) Like(ctx context.Context, userID, vozID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps a double-tap race from
	// producing duplicate like rows.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO voz_likes (user_id, voz_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (voz_id, user_id) DO NOTHING`,
		userID, vozID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateVoz(ctx, vozID)
	return nil
}

func (r *vozRepository) Unlike(ctx context.Context, userID, vozID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND voz_id = ?", userID, vozID).
		Delete(&models.VozLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateVoz(ctx, vozID)
	return nil
}

func (r *vozRepository) AddComment(ctx context.Context, comment *models.VozComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateVoz(ctx, comment.VozID)
	return nil
}

// GetComments returns comments in insertion order.
func (r *vozRepository) GetComments(ctx context.Context, vozID uint) ([]models.VozComment, error) {
	var comments []models.VozComment
	err := r.db.WithContext(ctx).
		Where("voz_id = ?", vozID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
