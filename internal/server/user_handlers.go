package server

import (
	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest carries the profile fields to change. Omitted fields
// are left alone.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user profile
// @Description Get the current user's profile with pending friend requests
// @Tags users
// @Produce json
// @Success 200 {object} service.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.userService.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetUserProfile handles GET /api/users/:id
// @Summary User profile
// @Description Get a user's profile with pending friend requests
// @Tags users
// @Produce json
// @Param id path integer true "User ID"
// @Success 200 {object} service.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update profile
// @Description Update the current user's profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param id path integer true "User ID"
// @Param request body server.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsSameUser(ctx, id, currentEmail(c))
	if requireOwner(c, ok, err, "You can only update your own profile") != nil {
		return nil
	}

	var req UpdateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(ctx, id, service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete account
// @Description Delete the current user's account and everything it owns
// @Tags users
// @Produce json
// @Param id path integer true "User ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsSameUser(ctx, id, currentEmail(c))
	if requireOwner(c, ok, err, "You can only delete your own account") != nil {
		return nil
	}

	if err := s.userService.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserFriends handles GET /api/users/:id/friends
// @Summary User friends
// @Description List a user's friends
// @Tags users
// @Produce json
// @Param id path integer true "User ID"
// @Success 200 {array} models.UserSummary
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/friends [get]
func (s *Server) GetUserFriends(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friends, err := s.userService.Friends(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary User posts
// @Description List posts written by a user, newest first
// @Tags users
// @Produce json
// @Param id path integer true "User ID"
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Success 200 {array} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.postService.ListByUser(c.UserContext(), service.ListPostsInput{
		UserID: id,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetUsers handles GET /api/users
// @Summary List users
// @Description List all users
// @Tags users
// @Produce json
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Success 200 {array} models.UserSummary
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	users, err := s.userService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// SearchUsers handles GET /api/users/search?q=
// @Summary Search users
// @Description Search users by username or name
// @Tags users
// @Produce json
// @Param q query string true "Search keyword"
// @Success 200 {array} models.UserSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	users, err := s.userService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetFriendSuggestions handles GET /api/users/suggestions
// @Summary Friend suggestions
// @Description Suggest users ranked by mutual friends
// @Tags users
// @Produce json
// @Success 200 {array} service.FriendSuggestion
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/suggestions [get]
func (s *Server) GetFriendSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.rankingService.FriendSuggestions(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suggestions)
}
