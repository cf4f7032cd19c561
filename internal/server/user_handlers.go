package server

import (
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Description Get the authenticated user's profile with follower graph and voice samples
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} object{error=string}
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Update display name, bio, bio sound, interests and personality tags
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,bio=string,bio_sound_url=string,interests=[]string,personality_tags=[]string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name            string   `json:"name"`
		Bio             string   `json:"bio"`
		BioSoundURL     string   `json:"bio_sound_url"`
		Interests       []string `json:"interests"`
		PersonalityTags []string `json:"personality_tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:          userID,
		Name:            req.Name,
		Bio:             req.Bio,
		BioSoundURL:     req.BioSoundURL,
		Interests:       req.Interests,
		PersonalityTags: req.PersonalityTags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyAvatar handles PUT /api/users/me/avatar
// @Summary Set own avatar
// @Description Replace the authenticated user's avatar URL
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{avatar_url=string} true "Avatar URL or data URI"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Router /users/me/avatar [put]
func (s *Server) UpdateMyAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateAvatar(c.Context(), userID, req.AvatarURL)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// AddMyVoiceSample handles POST /api/users/me/voice-samples
// @Summary Add a voice sample
// @Description Attach a titled voice sample to the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,url=string} true "Voice sample"
// @Success 201 {object} models.VoiceSample
// @Failure 400 {object} object{error=string}
// @Router /users/me/voice-samples [post]
func (s *Server) AddMyVoiceSample(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sample, err := s.userService.AddVoiceSample(c.Context(), userID, req.Title, req.URL)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sample)
}

// GetAllUsers handles GET /api/users
// @Summary List users
// @Description List users for discovery, paginated
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user profile
// @Description Get a user's public profile with follower graph and voice samples
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GenerateMyAvatar handles POST /api/users/me/avatar/generate
// @Summary Generate an avatar from voice
// @Description Generate a new avatar image from an audio recording. On any failure the previous avatar is kept.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{audio=string} true "Audio as a data URI"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /users/me/avatar/generate [post]
func (s *Server) GenerateMyAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Audio string `json:"audio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.avatarService.GenerateAvatar(c.Context(), userID, req.Audio)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
