package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type codeStub map[string]string

func (c codeStub) Verify(email, code string) bool {
	want, ok := c[email]
	return ok && want == code
}

func strPtr(s string) *string { return &s }

func TestUserService_Register(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "taken")
	svc := NewUserService(uow, codeStub{"new@example.com": "123456"})

	valid := RegisterInput{Username: "newbie", Email: " New@Example.com ", Password: "longenough", Code: "123456"}

	t.Run("validation", func(t *testing.T) {
		bad := valid
		bad.Password = "short"
		_, err := svc.Register(ctx, bad)
		assertValidationError(t, err)

		bad = valid
		bad.Username = strings.Repeat("u", maxUsernameLen+1)
		_, err = svc.Register(ctx, bad)
		assertValidationError(t, err)
	})

	t.Run("registered email conflicts", func(t *testing.T) {
		in := valid
		in.Email = "taken@example.com"
		_, err := svc.Register(ctx, in)
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("wrong code conflicts", func(t *testing.T) {
		in := valid
		in.Code = "000000"
		_, err := svc.Register(ctx, in)
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("success", func(t *testing.T) {
		u, err := svc.Register(ctx, valid)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", u.Email)
		assert.NotEqual(t, "longenough", u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("longenough")))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()
	db, uow, bus := newTestUnit(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "alice")
	u.Bio = "original"
	require.NoError(t, db.Save(u).Error)
	svc := NewUserService(uow, nil)

	_, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Bio: strPtr(strings.Repeat("b", maxBioLen+1))})
	assertValidationError(t, err)
	assert.Empty(t, bus.Events(), "a rolled back update releases nothing")

	got, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{FirstName: strPtr("Alice"), LastName: strPtr("Liddell")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Liddell", got.LastName)
	assert.Equal(t, "original", got.Bio)

	evs := bus.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, models.EventUpdateProfile, evs[0].Kind)
	assert.Equal(t, u.ID, evs[0].ActorID)
	assert.Equal(t, u.ID, evs[0].RecipientID)
	assert.Equal(t, "/profile", evs[0].Link)

	_, err = svc.UpdateProfile(ctx, 404, ProfileUpdate{})
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_GetIncludesRequests(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")
	friends := NewFriendService(uow)

	require.NoError(t, friends.SendRequest(ctx, a.ID, b.ID))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, friends.SendRequest(ctx, a.ID, c.ID))
	require.NoError(t, friends.SendRequest(ctx, c.ID, b.ID))

	profile, err := NewUserService(uow, nil).Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, profile.Sent, 2)
	assert.Equal(t, c.ID, profile.Sent[0].User.ID, "newest request first")
	assert.Equal(t, b.ID, profile.Sent[1].User.ID)
	assert.Empty(t, profile.Received)

	profile, err = NewUserService(uow, nil).Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Received, 2)
}

func TestUserService_FriendsAndSearch(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "bobby")
	fs := NewFriendService(uow)
	require.NoError(t, fs.SendRequest(ctx, a.ID, b.ID))
	require.NoError(t, fs.AcceptRequest(ctx, b.ID, a.ID))

	svc := NewUserService(uow, nil)
	friends, err := svc.Friends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, b.ID, friends[0].ID)

	found, err := svc.Search(ctx, "BOB")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.Search(ctx, " ")
	assertValidationError(t, err)
}

func TestUserService_DeleteRetractsUser(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	gone := testutil.CreateUser(t, db, "gone")
	friend := testutil.CreateUser(t, db, "friend")
	pending := testutil.CreateUser(t, db, "pending")
	other := testutil.CreateUser(t, db, "other")

	fs := NewFriendService(uow)
	require.NoError(t, fs.SendRequest(ctx, gone.ID, friend.ID))
	require.NoError(t, fs.AcceptRequest(ctx, friend.ID, gone.ID))
	require.NoError(t, fs.SendRequest(ctx, pending.ID, gone.ID))

	ps := NewPostService(uow)
	cs := NewCommentService(uow)
	otherPost := testutil.CreatePost(t, db, other.ID, "other's post")
	ownPost := testutil.CreatePost(t, db, gone.ID, "own post")
	otherComment := testutil.CreateComment(t, db, other.ID, otherPost.ID, "other's comment")
	require.NoError(t, ps.LikePost(ctx, gone.ID, otherPost.ID))
	require.NoError(t, cs.LikeComment(ctx, gone.ID, otherComment.ID))
	require.NoError(t, ps.LikePost(ctx, other.ID, ownPost.ID))
	ownComment, err := cs.Create(ctx, CreateCommentInput{UserID: gone.ID, PostID: otherPost.ID, Content: "mine"})
	require.NoError(t, err)
	require.NoError(t, cs.LikeComment(ctx, other.ID, ownComment.ID))
	testutil.CreateComment(t, db, other.ID, ownPost.ID, "on the doomed post")

	require.NoError(t, db.Create(&models.Notification{RecipientID: gone.ID, NotifierID: other.ID, Kind: models.EventPostLike, Message: "m"}).Error)
	require.NoError(t, db.Create(&models.Notification{RecipientID: other.ID, NotifierID: gone.ID, Kind: models.EventPostLike, Message: "m"}).Error)

	require.NoError(t, NewUserService(uow, nil).Delete(ctx, gone.ID))

	assert.Equal(t, int64(0), count(t, db, &models.User{}, "id = ?", gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Friendship{}, "user_id = ? OR friend_id = ?", gone.ID, gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.FriendRequest{}, "sender_id = ? OR receiver_id = ?", gone.ID, gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.FriendRequestMeta{}, "sender_id = ? OR receiver_id = ?", gone.ID, gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.PostLike{}, "user_id = ?", gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.CommentLike{}, "user_id = ?", gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Post{}, "user_id = ?", gone.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Comment{}, "user_id = ? OR post_id = ?", gone.ID, ownPost.ID))
	assert.Equal(t, int64(0), count(t, db, &models.CommentLike{}, "comment_id = ?", ownComment.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Notification{}, "recipient_id = ? OR notifier_id = ?", gone.ID, gone.ID))

	// Untouched rows that belong to others.
	assert.Equal(t, int64(1), count(t, db, &models.Post{}, "id = ?", otherPost.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Comment{}, "id = ?", otherComment.ID))

	status, err := fs.RelationshipStatus(ctx, friend.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipNone, status)

	assertCode(t, NewUserService(uow, nil).Delete(ctx, gone.ID), models.CodeNotFound)
}

// singleUseCodes consumes a code on its first successful Verify.
type singleUseCodes map[string]string

func (c singleUseCodes) Verify(email, code string) bool {
	want, ok := c[email]
	if !ok || want != code {
		return false
	}
	delete(c, email)
	return true
}

func TestUserService_Register_TakenUsernameKeepsCode(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "taken")
	svc := NewUserService(uow, singleUseCodes{"new@example.com": "123456"})

	in := RegisterInput{Username: "taken", Email: "new@example.com", Password: "longenough", Code: "123456"}
	_, err := svc.Register(ctx, in)
	assertCode(t, err, models.CodeConflict)
	assert.Contains(t, err.Error(), "Username already taken: taken")

	in.Username = "fresh"
	u, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "fresh", u.Username)

	in.Username = "again"
	_, err = svc.Register(ctx, in)
	assertCode(t, err, models.CodeConflict)
	assert.Contains(t, err.Error(), "User already exists with email")
}

func TestUserService_List(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	c := testutil.CreateUser(t, db, "c")
	svc := NewUserService(uow, nil)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{a.ID, b.ID, c.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	page, err := svc.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, b.ID, page[0].ID)
	assert.Equal(t, c.ID, page[1].ID)

	empty, err := svc.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
