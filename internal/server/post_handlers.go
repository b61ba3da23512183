package server

import (
	"kinship/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the body of POST /api/posts and PUT /api/posts/:id.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=50000"`
}

// SearchPosts handles GET /api/posts/search?q=
// @Summary Search posts
// @Description Search posts by content keyword
// @Tags posts
// @Produce json
// @Param q query string true "Search keyword"
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Success 200 {array} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.Search(c.UserContext(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Create a new post as the current user
// @Tags posts
// @Accept json
// @Produce json
// @Param request body server.CreatePostRequest true "Post content"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description List all posts, newest first
// @Tags posts
// @Produce json
// @Param limit query integer false "Page size"
// @Param offset query integer false "Page offset"
// @Success 200 {array} models.Post
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update post
// @Description Update the content of a post owned by the current user
// @Tags posts
// @Accept json
// @Produce json
// @Param id path integer true "Post ID"
// @Param request body server.CreatePostRequest true "Post content"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsPostOwner(ctx, id, currentEmail(c))
	if requireOwner(c, ok, err, "You can only update your own posts") != nil {
		return nil
	}

	var req CreatePostRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Update(ctx, service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description Get a single post with its counters
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Description Delete a post owned by the current user
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ok, err := s.policy.IsPostOwner(ctx, id, currentEmail(c))
	if requireOwner(c, ok, err, "You can only delete your own posts") != nil {
		return nil
	}

	if err := s.postService.Delete(ctx, currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTrendingPosts handles GET /api/posts/trending
// @Summary Trending posts
// @Description List posts ranked by engagement and recency
// @Tags posts
// @Produce json
// @Success 200 {array} service.TrendingPost
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/trending [get]
func (s *Server) GetTrendingPosts(c *fiber.Ctx) error {
	posts, err := s.rankingService.TrendingPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// LikePost handles POST /api/posts/:id/like
// @Summary Like post
// @Description Like a post as the current user
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.LikePost(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post liked"})
}

// UnlikePost handles DELETE /api/posts/:id/like
// @Summary Unlike post
// @Description Remove the current user's like from a post
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.UnlikePost(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unliked"})
}

// GetPostLikers handles GET /api/posts/:id/likes
// @Summary Post likers
// @Description List users who liked a post
// @Tags posts
// @Produce json
// @Param id path integer true "Post ID"
// @Success 200 {array} models.UserSummary
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/likes [get]
func (s *Server) GetPostLikers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.postService.Likers(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
