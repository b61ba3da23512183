package server

import (
	"fmt"
	"net/http"
	"testing"

	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")

	toBob := fmt.Sprintf("/api/friends/requests/%d", bob.ID)
	fromAlice := fmt.Sprintf("/api/friends/requests/%d", alice.ID)

	status, _ := ts.do(t, http.MethodPost, toBob, alice, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := ts.do(t, http.MethodPost, toBob, alice, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeInvalidState, errorCode(t, body))

	status, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/friends/status/%d", alice.ID), bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(models.RelationshipPendingReceived), decode[map[string]string](t, body)["status"])

	status, _ = ts.do(t, http.MethodPost, fromAlice+"/accept", bob, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodGet, "/api/friends", alice, nil)
	require.Equal(t, http.StatusOK, status)
	friends := decode[[]models.UserSummary](t, body)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	removeBob := fmt.Sprintf("/api/friends/%d", bob.ID)
	status, _ = ts.do(t, http.MethodDelete, removeBob, alice, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodDelete, removeBob, alice, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "This user is not in your friends list.")
}

func TestFriendRequest_RejectAndCancel(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")

	toBob := fmt.Sprintf("/api/friends/requests/%d", bob.ID)
	fromAlice := fmt.Sprintf("/api/friends/requests/%d", alice.ID)

	status, body := ts.do(t, http.MethodPost, fromAlice+"/reject", bob, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "No friend request from this user.")

	require.Equal(t, http.StatusCreated, statusOf(ts.do(t, http.MethodPost, toBob, alice, nil)))
	assert.Equal(t, http.StatusOK, statusOf(ts.do(t, http.MethodPost, fromAlice+"/reject", bob, nil)))

	require.Equal(t, http.StatusCreated, statusOf(ts.do(t, http.MethodPost, toBob, alice, nil)))
	assert.Equal(t, http.StatusOK, statusOf(ts.do(t, http.MethodDelete, toBob, alice, nil)))

	status, body = ts.do(t, http.MethodDelete, toBob, alice, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "No sent friend request to this user.")
}

func TestFriendRequest_Errors(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")

	tests := []struct {
		name   string
		path   string
		user   *models.User
		status int
	}{
		{"Self", fmt.Sprintf("/api/friends/requests/%d", alice.ID), alice, http.StatusConflict},
		{"Unknown User", "/api/friends/requests/999", alice, http.StatusNotFound},
		{"Invalid ID", "/api/friends/requests/abc", alice, http.StatusBadRequest},
		{"Anonymous", "/api/friends/requests/1", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, tt.path, tt.user, nil)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}

func statusOf(status int, _ []byte) int {
	return status
}
