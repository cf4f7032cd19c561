package server

import (
	"friendlyvoice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/voces
// @Summary Latest voces feed
// @Description List voces newest first. With a Bearer token, each voz carries the caller's liked state.
// @Tags voces
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Voz
// @Router /voces [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	voces, err := s.vozService.GetFeed(c.Context(), p.Limit, p.Offset, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voces)
}

// GetVoz handles GET /api/voces/:id
// @Summary Get a voz
// @Description Get a single voz with its comments
// @Tags voces
// @Produce json
// @Param id path int true "Voz ID"
// @Success 200 {object} models.Voz
// @Failure 404 {object} object{error=string}
// @Router /voces/{id} [get]
func (s *Server) GetVoz(c *fiber.Ctx) error {
	vozID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	voz, err := s.vozService.GetVoz(c.Context(), vozID, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voz)
}

// GetVozComments handles GET /api/voces/:id/comments
// @Summary List comments on a voz
// @Description List comments oldest first
// @Tags voces
// @Produce json
// @Param id path int true "Voz ID"
// @Success 200 {array} models.VozComment
// @Failure 404 {object} object{error=string}
// @Router /voces/{id}/comments [get]
func (s *Server) GetVozComments(c *fiber.Ctx) error {
	vozID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	voz, err := s.vozService.GetVoz(c.Context(), vozID, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voz.Comments)
}

// CreateVoz handles POST /api/voces
// @Summary Post a voz
// @Description Publish a voice post to the feed
// @Tags voces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{audio_url=string,caption=string} true "Voz content"
// @Success 201 {object} models.Voz
// @Failure 400 {object} object{error=string}
// @Router /voces [post]
func (s *Server) CreateVoz(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		AudioURL string `json:"audio_url"`
		Caption  string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	voz, err := s.vozService.CreateVoz(c.Context(), userID, req.AudioURL, req.Caption)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(voz)
}

// ToggleVozLike handles POST /api/voces/:id/like
// @Summary Toggle like on a voz
// @Description Like the voz if not yet liked, unlike it otherwise. Returns the voz with fresh counters.
// @Tags voces
// @Produce json
// @Security BearerAuth
// @Param id path int true "Voz ID"
// @Success 200 {object} models.Voz
// @Failure 404 {object} object{error=string}
// @Router /voces/{id}/like [post]
func (s *Server) ToggleVozLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	vozID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	voz, err := s.vozService.ToggleLike(c.Context(), userID, vozID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voz)
}

// CreateVozComment handles POST /api/voces/:id/comments
// @Summary Comment on a voz
// @Description Add a text comment. Returns the voz with comments and fresh counters.
// @Tags voces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Voz ID"
// @Param request body object{text=string} true "Comment text"
// @Success 201 {object} models.Voz
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /voces/{id}/comments [post]
func (s *Server) CreateVozComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	vozID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	voz, err := s.vozService.AddComment(c.Context(), userID, vozID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(voz)
}

// GetUserVoces handles GET /api/users/:id/voces
// @Summary List a user's voces
// @Tags voces
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Voz
// @Router /users/{id}/voces [get]
func (s *Server) GetUserVoces(c *fiber.Ctx) error {
	currentUserID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	voces, err := s.vozService.GetUserVoces(c.Context(), targetID, p.Limit, p.Offset, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voces)
}
