package server

import (
	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
// @Summary Send friend request
// @Description Send a friend request to another user
// @Tags friends
// @Produce json
// @Param userId path integer true "Target user ID"
// @Success 201 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{userId} [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.SendRequest(c.UserContext(), currentUserID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Friend request sent"})
}

// AcceptFriendRequest handles POST /api/friends/requests/:userId/accept
// where userId is the sender of the request.
// @Summary Accept friend request
// @Description Accept a pending friend request from another user
// @Tags friends
// @Produce json
// @Param userId path integer true "Target user ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{userId}/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	senderID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.AcceptRequest(c.UserContext(), currentUserID(c), senderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// RejectFriendRequest handles POST /api/friends/requests/:userId/reject
// @Summary Reject friend request
// @Description Reject a pending friend request from another user
// @Tags friends
// @Produce json
// @Param userId path integer true "Target user ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{userId}/reject [post]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	senderID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RejectRequest(c.UserContext(), currentUserID(c), senderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

// CancelFriendRequest handles DELETE /api/friends/requests/:userId
// where userId is the receiver of the caller's request.
// @Summary Cancel friend request
// @Description Cancel a friend request the current user sent
// @Tags friends
// @Produce json
// @Param userId path integer true "Target user ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/requests/{userId} [delete]
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	receiverID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.CancelRequest(c.UserContext(), currentUserID(c), receiverID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request cancelled"})
}

// RemoveFriend handles DELETE /api/friends/:userId
// @Summary Remove friend
// @Description End an accepted friendship
// @Tags friends
// @Produce json
// @Param userId path integer true "Target user ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/{userId} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	friendID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RemoveFriend(c.UserContext(), currentUserID(c), friendID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// GetFriendshipStatus handles GET /api/friends/status/:userId
// @Summary Friendship status
// @Description Get the friendship status between the current user and another user
// @Tags friends
// @Produce json
// @Param userId path integer true "Target user ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends/status/{userId} [get]
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.friendService.RelationshipStatus(c.UserContext(), currentUserID(c), otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}

// GetFriends handles GET /api/friends
// @Summary List friends
// @Description List the current user's friends
// @Tags friends
// @Produce json
// @Success 200 {array} models.UserSummary
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.userService.Friends(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}
