package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow a user
// @Description Follow the given user. Following an already-followed user is a no-op.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{following=bool}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.Context(), userID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": true})
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Description Stop following the given user. Unfollowing a user not followed is a no-op.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{following=bool}
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.Context(), userID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// GetFollowStatus handles GET /api/users/:id/follow
// @Summary Follow status
// @Description Report whether the caller follows the given user, and whether the follow is mutual
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{following=bool,mutual=bool}
// @Router /users/{id}/follow [get]
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.IsFollowing(c.Context(), userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	mutual := false
	if following {
		mutual, err = s.followService.IsMutual(c.Context(), userID, targetID)
		if err != nil {
			return respondServiceError(c, err)
		}
	}
	return c.JSON(fiber.Map{
		"following": following,
		"mutual":    mutual,
	})
}

// GetMutualFollows handles GET /api/users/me/mutuals
// @Summary List mutual follows
// @Description List users who follow the caller and are followed back. These are the users the caller can message.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /users/me/mutuals [get]
func (s *Server) GetMutualFollows(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	mutuals, err := s.followService.Mutuals(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mutuals)
}

// GetFollowers handles GET /api/users/:id/followers
// @Summary List followers
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.followService.Followers(c.Context(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/:id/following
// @Summary List followed users
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.Following(c.Context(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(following)
}
