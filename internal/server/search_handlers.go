package server

import "github.com/gofiber/fiber/v2"

// Search handles GET /api/search?q=
// @Summary Search
// @Description Search users and posts by keyword
// @Tags search
// @Produce json
// @Param q query string true "Search keyword"
// @Success 200 {object} service.SearchResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	result, err := s.searchService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
