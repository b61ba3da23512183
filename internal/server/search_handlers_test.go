package server

import (
	"net/http"
	"testing"

	"kinship/internal/models"
	"kinship/internal/service"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_UsersAndPosts(t *testing.T) {
	ts := newTestServer(t)
	gopher := testutil.CreateUser(t, ts.db, "gopher")
	alice := testutil.CreateUser(t, ts.db, "alice")
	post := testutil.CreatePost(t, ts.db, alice.ID, "met a gopher today")
	testutil.CreatePost(t, ts.db, alice.ID, "nothing to see")

	status, body := ts.do(t, http.MethodGet, "/api/search?q=gopher", nil, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	result := decode[service.SearchResult](t, body)
	require.Len(t, result.Users, 1)
	assert.Equal(t, gopher.ID, result.Users[0].ID)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, post.ID, result.Posts[0].ID)

	status, body = ts.do(t, http.MethodGet, "/api/search?q=zebra", nil, nil)
	require.Equal(t, http.StatusOK, status)
	empty := decode[service.SearchResult](t, body)
	assert.Empty(t, empty.Users)
	assert.Empty(t, empty.Posts)
}

func TestSearch_RequiresKeyword(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/api/search?q=%20%20", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, errorCode(t, body))
}

func TestSwaggerDocs(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/api/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, status)
	doc := decode[map[string]any](t, body)
	assert.Equal(t, "2.0", doc["swagger"])

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, route := range []string{"/posts/{id}", "/search", "/users/{id}/comments", "/comments/{commentId}"} {
		assert.Contains(t, paths, route)
	}
}
