package service

import (
	"context"
	"strings"

	"kinship/internal/models"
)

// SearchResult groups the matches of one keyword across users and posts.
type SearchResult struct {
	Users []models.UserSummary `json:"users"`
	Posts []*models.Post       `json:"posts"`
}

// SearchService answers the site-wide search box.
type SearchService struct {
	users *UserService
	posts *PostService
}

func NewSearchService(users *UserService, posts *PostService) *SearchService {
	return &SearchService{users: users, posts: posts}
}

// Search matches keyword against usernames and names, and against post
// content. Each list keeps the ordering of its own search.
func (s *SearchService) Search(ctx context.Context, keyword string) (*SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	users, err := s.users.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Search(ctx, keyword, searchLimit, 0)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Users: users, Posts: posts}, nil
}
