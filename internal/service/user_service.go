package service

import (
	"context"

	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"
)

// UserService provides profile read and update logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// UpdateProfileInput carries the optional profile fields; empty values leave
// the stored field untouched.
type UpdateProfileInput struct {
	UserID          uint
	Name            string
	Bio             string
	BioSoundURL     string
	Interests       []string
	PersonalityTags []string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// GetUserByID returns the user with fresh follower/following views attached.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithSamples(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachGraph(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) attachGraph(ctx context.Context, user *models.User) error {
	followers, err := s.followRepo.FollowerIDs(ctx, user.ID)
	if err != nil {
		return err
	}
	following, err := s.followRepo.FollowingIDs(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Followers = followers
	user.Following = following
	user.FollowersCount = len(followers)
	user.FollowingCount = len(following)
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 60

	if in.Name != "" {
		if len(in.Name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 60 characters)")
		}
		user.Name = in.Name
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.BioSoundURL != "" {
		user.BioSoundURL = in.BioSoundURL
	}
	if in.Interests != nil {
		user.Interests = models.StringList(in.Interests)
	}
	if in.PersonalityTags != nil {
		user.PersonalityTags = models.StringList(in.PersonalityTags)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateAvatar persists a new avatar URL for the user and refreshes the
// per-user avatar cache entry.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, avatarURL string) (*models.User, error) {
	if avatarURL == "" {
		return nil, models.NewValidationError("Avatar URL is required")
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// AddVoiceSample attaches a titled recording to the user's profile.
func (s *UserService) AddVoiceSample(ctx context.Context, userID uint, title, url string) (*models.VoiceSample, error) {
	if url == "" {
		return nil, models.NewValidationError("Sample URL is required")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	sample := &models.VoiceSample{
		UserID: userID,
		Title:  title,
		URL:    url,
	}
	if err := s.userRepo.AddVoiceSample(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}
