package service

import (
	"context"
	"strings"

	"friendlyvoice/internal/middleware"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"
)

// VozService provides feed and voice post business logic.
type VozService struct {
	vozRepo  repository.VozRepository
	userRepo repository.UserRepository
}

// NewVozService returns a new VozService.
func NewVozService(vozRepo repository.VozRepository, userRepo repository.UserRepository) *VozService {
	return &VozService{vozRepo: vozRepo, userRepo: userRepo}
}

// CreateVoz publishes a voice post. The poster's name and avatar are
// snapshotted onto the voz; later profile edits never rewrite old posts.
func (s *VozService) CreateVoz(ctx context.Context, userID uint, audioURL, caption string) (*models.Voz, error) {
	if strings.TrimSpace(audioURL) == "" {
		return nil, models.NewValidationError("Audio URL is required")
	}
	const maxCaptionLen = 500
	if len(caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 500 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	voz := &models.Voz{
		UserID:        user.ID,
		UserName:      user.Name,
		UserAvatarURL: user.AvatarURL,
		AudioURL:      audioURL,
		Caption:       caption,
	}
	if err := s.vozRepo.Create(ctx, voz); err != nil {
		return nil, err
	}
	middleware.VocesCreated.Inc()

	return s.vozRepo.GetByID(ctx, voz.ID, userID)
}

// GetFeed returns the feed, newest first, with viewer-relative like state.
func (s *VozService) GetFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Voz, error) {
	return s.vozRepo.List(ctx, limit, offset, currentUserID)
}

// GetVoz returns a single voz with its comments in insertion order.
func (s *VozService) GetVoz(ctx context.Context, vozID, currentUserID uint) (*models.Voz, error) {
	voz, err := s.vozRepo.GetByID(ctx, vozID, currentUserID)
	if err != nil {
		return nil, err
	}
	comments, err := s.vozRepo.GetComments(ctx, vozID)
	if err != nil {
		return nil, err
	}
	voz.Comments = comments
	return voz, nil
}

// GetUserVoces returns a user's posts, newest first.
func (s *VozService) GetUserVoces(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Voz, error) {
	return s.vozRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// ToggleLike flips the viewer's like on the voz and returns the recomputed
// post. The like row is the durable intent; the count is always derived, so
// toggling twice restores the original count exactly.
func (s *VozService) ToggleLike(ctx context.Context, userID, vozID uint) (*models.Voz, error) {
	if _, err := s.vozRepo.GetByID(ctx, vozID, userID); err != nil {
		return nil, err
	}

	liked, err := s.vozRepo.IsLiked(ctx, userID, vozID)
	if err != nil {
		return nil, err
	}
	if liked {
		err = s.vozRepo.Unlike(ctx, userID, vozID)
	} else {
		err = s.vozRepo.Like(ctx, userID, vozID)
	}
	if err != nil {
		return nil, err
	}

	return s.vozRepo.GetByID(ctx, vozID, userID)
}

// AddComment appends a comment carrying the commenter's snapshot and returns
// the updated voz.
func (s *VozService) AddComment(ctx context.Context, userID, vozID uint, text string) (*models.Voz, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	const maxCommentLen = 1000
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	if _, err := s.vozRepo.GetByID(ctx, vozID, userID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.VozComment{
		VozID:         vozID,
		UserID:        user.ID,
		UserName:      user.Name,
		UserAvatarURL: user.AvatarURL,
		Text:          text,
	}
	if err := s.vozRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	return s.GetVoz(ctx, vozID, userID)
}
