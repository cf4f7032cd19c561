package service

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"friendlyvoice/internal/featureflags"
	"friendlyvoice/internal/genai"
	"friendlyvoice/internal/middleware"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"

	_ "golang.org/x/image/webp"
)

// FlagAvatarGeneration is the kill switch for the avatar generation feature.
const FlagAvatarGeneration = "avatar_generation"

// AvatarService turns a voice recording into a generated avatar through the
// external generator. Any failure leaves the previous avatar untouched.
type AvatarService struct {
	userRepo  repository.UserRepository
	generator genai.Generator
	flags     *featureflags.Manager
}

// NewAvatarService returns a new AvatarService.
func NewAvatarService(userRepo repository.UserRepository, generator genai.Generator, flags *featureflags.Manager) *AvatarService {
	return &AvatarService{userRepo: userRepo, generator: generator, flags: flags}
}

// GenerateAvatar validates the audio payload, calls the generator, validates
// the returned image, and applies it to the user atomically. The update is
// keyed to the user ID, so a result arriving after the client moved on still
// lands on the right account.
func (s *AvatarService) GenerateAvatar(ctx context.Context, userID uint, audioDataURI string) (*models.User, error) {
	if s.killSwitched(userID) {
		return nil, models.NewForbiddenError("Avatar generation is temporarily disabled")
	}

	if !strings.HasPrefix(audioDataURI, "data:audio/") {
		return nil, models.NewValidationError("Audio must be a data URI with an audio media type")
	}
	mimeType, audio, err := genai.ParseDataURI(audioDataURI)
	if err != nil {
		return nil, models.NewValidationError("Invalid audio payload: " + err.Error())
	}
	if len(audio) == 0 {
		return nil, models.NewValidationError("Audio payload is empty")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.generator.GenerateAvatar(ctx, mimeType, audio)
	if err != nil {
		middleware.AvatarGenerations.WithLabelValues("upstream_error").Inc()
		middleware.Logger.WarnContext(ctx, "avatar generation failed, keeping previous avatar",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		return nil, models.NewUpstreamError("Avatar generation failed", err)
	}

	if err := validateAvatarImage(result); err != nil {
		middleware.AvatarGenerations.WithLabelValues("invalid_output").Inc()
		middleware.Logger.WarnContext(ctx, "avatar generator returned unusable output, keeping previous avatar",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		return nil, models.NewUpstreamError("Avatar generation returned an unusable image", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, user.ID, result); err != nil {
		return nil, err
	}
	middleware.AvatarGenerations.WithLabelValues("success").Inc()

	return s.userRepo.GetByID(ctx, userID)
}

// killSwitched reports whether the feature was explicitly turned off or
// rolled out away from this user. An unconfigured flag means enabled.
func (s *AvatarService) killSwitched(userID uint) bool {
	if s.flags == nil {
		return false
	}
	if _, configured := s.flags.Raw()[FlagAvatarGeneration]; !configured {
		return false
	}
	return !s.flags.Enabled(FlagAvatarGeneration, userID)
}

// validateAvatarImage checks that the generator output is a data URI whose
// payload decodes as PNG, JPEG or WebP.
func validateAvatarImage(result string) error {
	if strings.TrimSpace(result) == "" {
		return models.NewValidationError("empty generator output")
	}
	mimeType, data, err := genai.ParseDataURI(result)
	if err != nil {
		return err
	}
	switch mimeType {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return models.NewValidationError("unsupported image type " + mimeType)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}
