package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetEcosystems handles GET /api/ecosystems
// @Summary List ecosystems
// @Description List the static catalog of themed voice rooms
// @Tags ecosystems
// @Produce json
// @Success 200 {array} ecosystem.Ecosystem
// @Router /ecosystems [get]
func (s *Server) GetEcosystems(c *fiber.Ctx) error {
	return c.JSON(s.ecosystems.List())
}

// GetEcosystem handles GET /api/ecosystems/:id
// @Summary Get an ecosystem
// @Tags ecosystems
// @Produce json
// @Param id path string true "Ecosystem ID"
// @Success 200 {object} ecosystem.Ecosystem
// @Failure 404 {object} object{error=string}
// @Router /ecosystems/{id} [get]
func (s *Server) GetEcosystem(c *fiber.Ctx) error {
	eco, err := s.ecosystems.Get(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(eco)
}
