package server

import (
	"fmt"
	"net/http"
	"testing"

	"kinship/internal/models"
	"kinship/internal/service"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")

	require.Equal(t, http.StatusCreated,
		statusOf(ts.do(t, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d", bob.ID), alice, nil)))

	status, body := ts.do(t, http.MethodGet, "/api/users/me", alice, nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[service.Profile](t, body)
	assert.Equal(t, alice.ID, profile.ID)
	require.Len(t, profile.Sent, 1)
	assert.Equal(t, bob.ID, profile.Sent[0].User.ID)
	assert.Empty(t, profile.Received)

	status, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[service.Profile](t, body).Received, 1)

	assert.Equal(t, http.StatusNotFound, statusOf(ts.do(t, http.MethodGet, "/api/users/999", alice, nil)))
	assert.Equal(t, http.StatusUnauthorized, statusOf(ts.do(t, http.MethodGet, "/api/users/me", nil, nil)))
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")
	bio := "gopher"

	status, body := ts.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", bob.ID), alice, UpdateProfileRequest{Bio: &bio})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(body), "You can only update your own profile")

	status, body = ts.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), alice, UpdateProfileRequest{Bio: &bio})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[models.User](t, body)
	assert.Equal(t, "gopher", updated.Bio)
	assert.Equal(t, "alice", updated.FirstName)
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")

	assert.Equal(t, http.StatusForbidden, statusOf(ts.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), alice, nil)))
	assert.Equal(t, http.StatusNoContent, statusOf(ts.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), alice, nil)))

	// The token still verifies but no longer resolves to a user.
	assert.Equal(t, http.StatusUnauthorized, statusOf(ts.do(t, http.MethodGet, "/api/users/me", alice, nil)))
}

func TestSearchUsersAndSuggestions(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")
	carol := testutil.CreateUser(t, ts.db, "carol")

	ctx := t.Context()
	require.NoError(t, ts.rt.Friends.SendRequest(ctx, alice.ID, bob.ID))
	require.NoError(t, ts.rt.Friends.AcceptRequest(ctx, bob.ID, alice.ID))
	require.NoError(t, ts.rt.Friends.SendRequest(ctx, bob.ID, carol.ID))
	require.NoError(t, ts.rt.Friends.AcceptRequest(ctx, carol.ID, bob.ID))

	status, body := ts.do(t, http.MethodGet, "/api/users/search?q=CAR", alice, nil)
	require.Equal(t, http.StatusOK, status)
	found := decode[[]models.UserSummary](t, body)
	require.Len(t, found, 1)
	assert.Equal(t, carol.ID, found[0].ID)

	assert.Equal(t, http.StatusBadRequest, statusOf(ts.do(t, http.MethodGet, "/api/users/search", alice, nil)))

	status, body = ts.do(t, http.MethodGet, "/api/users/suggestions", alice, nil)
	require.Equal(t, http.StatusOK, status)
	suggestions := decode[[]service.FriendSuggestion](t, body)
	require.Len(t, suggestions, 1)
	assert.Equal(t, carol.ID, suggestions[0].User.ID)
	assert.Equal(t, 1, suggestions[0].Mutuals)

	status, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/friends", bob.ID), alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.UserSummary](t, body), 2)
}

func TestGetUsers(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")
	carol := testutil.CreateUser(t, ts.db, "carol")

	status, body := ts.do(t, http.MethodGet, "/api/users", alice, nil)
	require.Equal(t, http.StatusOK, status)
	all := decode[[]models.UserSummary](t, body)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{alice.ID, bob.ID, carol.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.NotContains(t, string(body), "password")

	status, body = ts.do(t, http.MethodGet, "/api/users?limit=1&offset=2", alice, nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[[]models.UserSummary](t, body)
	require.Len(t, page, 1)
	assert.Equal(t, carol.ID, page[0].ID)

	assert.Equal(t, http.StatusUnauthorized, statusOf(ts.do(t, http.MethodGet, "/api/users", nil, nil)))
}

func TestNotificationsWebSocket_RequiresUpgrade(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")

	assert.Equal(t, http.StatusUpgradeRequired, statusOf(ts.do(t, http.MethodGet, "/api/ws/notifications", alice, nil)))
	assert.Equal(t, http.StatusUnauthorized, statusOf(ts.do(t, http.MethodGet, "/api/ws/notifications", nil, nil)))
}
