package server

import (
	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CommentRequest is the body of comment create and update.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Create comment
// @Description Comment on a post as the current user
// @Tags comments
// @Accept json
// @Produce json
// @Param id path integer true "Post ID"
// @Param request body server.CommentRequest true "Comment content"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
// @Summary List post comments
// @Description List comments on a post, newest first
// @Tags comments
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByPost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetComment handles GET /api/comments/:commentId
// @Summary Get comment
// @Description Get a single comment
// @Tags comments
// @Produce json
// @Param commentId path integer true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.UserContext(), commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// GetUserComments handles GET /api/users/:id/comments
// @Summary List user comments
// @Description List comments written by a user, newest first
// @Tags comments
// @Produce json
// @Param id path integer true "User ID"
// @Success 200 {array} models.Comment
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/comments [get]
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/comments/:commentId
// @Summary Update comment
// @Description Update a comment owned by the current user
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path integer true "Comment ID"
// @Param request body server.CommentRequest true "Comment content"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsCommentOwner(ctx, commentID, currentEmail(c))
	if requireOwner(c, ok, err, "You can only update your own comments") != nil {
		return nil
	}

	var req CommentRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.Update(ctx, service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:commentId
// @Summary Delete comment
// @Description Delete a comment owned by the current user
// @Tags comments
// @Produce json
// @Param commentId path integer true "Comment ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsCommentOwner(ctx, commentID, currentEmail(c))
	if requireOwner(c, ok, err, "You can only delete your own comments") != nil {
		return nil
	}

	if err := s.commentService.Delete(ctx, currentUserID(c), commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeComment handles POST /api/comments/:commentId/like
// @Summary Like comment
// @Description Like a comment as the current user
// @Tags comments
// @Produce json
// @Param commentId path integer true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId}/like [post]
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.LikeComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment liked"})
}

// UnlikeComment handles DELETE /api/comments/:commentId/like
// @Summary Unlike comment
// @Description Remove the current user's like from a comment
// @Tags comments
// @Produce json
// @Param commentId path integer true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{commentId}/like [delete]
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.UnlikeComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment unliked"})
}

// GetCommentLikers handles GET /api/comments/:commentId/likes
// @Summary Comment likers
// @Description List users who liked a comment
// @Tags comments
// @Produce json
// @Param commentId path integer true "Comment ID"
// @Success 200 {array} models.UserSummary
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId}/likes [get]
func (s *Server) GetCommentLikers(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	users, err := s.commentService.Likers(c.UserContext(), commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
