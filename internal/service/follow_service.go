package service

import (
	"context"

	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"
)

// FollowService provides social graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow makes userID follow targetID. Following someone twice is a no-op,
// not an error.
func (s *FollowService) Follow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Follow(ctx, userID, targetID)
}

// Unfollow removes the edge; absent edges unfollow cleanly.
func (s *FollowService) Unfollow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewValidationError("Cannot unfollow yourself")
	}
	return s.followRepo.Unfollow(ctx, userID, targetID)
}

// IsFollowing reports whether userID follows targetID.
func (s *FollowService) IsFollowing(ctx context.Context, userID, targetID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, userID, targetID)
}

// IsMutual reports whether both directed edges between the two users exist.
func (s *FollowService) IsMutual(ctx context.Context, userID, targetID uint) (bool, error) {
	a, err := s.followRepo.IsFollowing(ctx, userID, targetID)
	if err != nil || !a {
		return false, err
	}
	return s.followRepo.IsFollowing(ctx, targetID, userID)
}

// Mutuals returns the users who follow userID and are followed back; this
// set gates direct messaging.
func (s *FollowService) Mutuals(ctx context.Context, userID uint) ([]models.User, error) {
	ids, err := s.followRepo.MutualIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ctx, ids)
}

// Followers returns the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	ids, err := s.followRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ctx, ids)
}

// Following returns the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	ids, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ctx, ids)
}
