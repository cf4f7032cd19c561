package server

import (
	"friendlyvoice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetChats handles GET /api/chats
// @Summary List conversations
// @Description List the caller's conversations, newest first, with unread counts. Conversations are derived from messages, never stored.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Chat
// @Router /chats [get]
func (s *Server) GetChats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	chats, err := s.messageService.ListChats(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(chats)
}

// GetDirectMessages handles GET /api/messages/:partnerId
// @Summary Get a conversation
// @Description Get all messages with the partner, oldest first. Opening the conversation marks the partner's messages as read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param partnerId path int true "Partner user ID"
// @Success 200 {array} models.DirectMessage
// @Failure 404 {object} object{error=string}
// @Router /messages/{partnerId} [get]
func (s *Server) GetDirectMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	partnerID, err := s.parseID(c, "partnerId")
	if err != nil {
		return nil
	}

	msgs, err := s.messageService.GetDirectMessages(c.Context(), userID, partnerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(msgs)
}

// SendDirectMessage handles POST /api/messages
// @Summary Send a voice message
// @Description Send a direct voice message to a mutual follow. Recipients with open connections are pushed the message in real time.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{recipient_id=int,voice_url=string} true "Message"
// @Success 201 {object} models.DirectMessage
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /messages [post]
func (s *Server) SendDirectMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		RecipientID uint   `json:"recipient_id"`
		VoiceURL    string `json:"voice_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RecipientID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Recipient is required"))
	}

	msg, err := s.messageService.SendDirectMessage(c.Context(), userID, req.RecipientID, req.VoiceURL)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
