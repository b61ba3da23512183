package service

import (
	"context"
	"time"

	"kinship/internal/models"
	"kinship/internal/repository"

	"gorm.io/gorm"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByIDsFn      func(context.Context, []uint) ([]models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	existsByEmailFn func(context.Context, string) (bool, error)
	existsByNameFn  func(context.Context, string) (bool, error)
	lockForUpdateFn func(context.Context, ...uint) ([]models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listIDsFn       func(context.Context) ([]uint, error)
	searchFn        func(context.Context, string, int) ([]models.User, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsByNameFn(ctx, username)
}
func (s *userRepoStub) LockForUpdate(ctx context.Context, ids ...uint) ([]models.User, error) {
	return s.lockForUpdateFn(ctx, ids...)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) ListIDs(ctx context.Context) ([]uint, error) {
	return s.listIDsFn(ctx)
}
func (s *userRepoStub) Search(ctx context.Context, keyword string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, keyword, limit)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDsFn:      func(context.Context, []uint) ([]models.User, error) { return nil, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		existsByEmailFn: func(context.Context, string) (bool, error) { return false, nil },
		existsByNameFn:  func(context.Context, string) (bool, error) { return false, nil },
		lockForUpdateFn: func(_ context.Context, ids ...uint) ([]models.User, error) {
			users := make([]models.User, len(ids))
			for i, id := range ids {
				users[i] = models.User{ID: id}
			}
			return users, nil
		},
		createFn:  func(context.Context, *models.User) error { return nil },
		updateFn:  func(context.Context, *models.User) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		listIDsFn: func(context.Context) ([]uint, error) { return nil, nil },
		searchFn:  func(context.Context, string, int) ([]models.User, error) { return nil, nil },
		listFn:    func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

type friendRepoStub struct {
	areFriendsFn       func(context.Context, uint, uint) (bool, error)
	hasRequestFn       func(context.Context, uint, uint) (bool, error)
	createRequestFn    func(context.Context, uint, uint, time.Time) error
	deleteRequestFn    func(context.Context, uint, uint) (bool, error)
	createFriendshipFn func(context.Context, uint, uint) error
	deleteFriendshipFn func(context.Context, uint, uint) (bool, error)
	friendIDsFn        func(context.Context, uint) ([]uint, error)
	friendIDsOfFn      func(context.Context, []uint) (map[uint][]uint, error)
	pendingFn          func(context.Context, uint) ([]uint, error)
	sentFn             func(context.Context, uint) ([]models.FriendRequestView, error)
	receivedFn         func(context.Context, uint) ([]models.FriendRequestView, error)
	deleteAllFn        func(context.Context, uint) error
}

func (s *friendRepoStub) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return s.areFriendsFn(ctx, a, b)
}
func (s *friendRepoStub) HasRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	return s.hasRequestFn(ctx, senderID, receiverID)
}
func (s *friendRepoStub) CreateRequest(ctx context.Context, senderID, receiverID uint, sentAt time.Time) error {
	return s.createRequestFn(ctx, senderID, receiverID, sentAt)
}
func (s *friendRepoStub) DeleteRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	return s.deleteRequestFn(ctx, senderID, receiverID)
}
func (s *friendRepoStub) CreateFriendship(ctx context.Context, a, b uint) error {
	return s.createFriendshipFn(ctx, a, b)
}
func (s *friendRepoStub) DeleteFriendship(ctx context.Context, a, b uint) (bool, error) {
	return s.deleteFriendshipFn(ctx, a, b)
}
func (s *friendRepoStub) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.friendIDsFn(ctx, userID)
}
func (s *friendRepoStub) FriendIDsOf(ctx context.Context, userIDs []uint) (map[uint][]uint, error) {
	return s.friendIDsOfFn(ctx, userIDs)
}
func (s *friendRepoStub) PendingCounterpartIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.pendingFn(ctx, userID)
}
func (s *friendRepoStub) SentRequests(ctx context.Context, userID uint) ([]models.FriendRequestView, error) {
	return s.sentFn(ctx, userID)
}
func (s *friendRepoStub) ReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequestView, error) {
	return s.receivedFn(ctx, userID)
}
func (s *friendRepoStub) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.deleteAllFn(ctx, userID)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		areFriendsFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		hasRequestFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		createRequestFn:    func(context.Context, uint, uint, time.Time) error { return nil },
		deleteRequestFn:    func(context.Context, uint, uint) (bool, error) { return true, nil },
		createFriendshipFn: func(context.Context, uint, uint) error { return nil },
		deleteFriendshipFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		friendIDsFn:        func(context.Context, uint) ([]uint, error) { return nil, nil },
		friendIDsOfFn:      func(context.Context, []uint) (map[uint][]uint, error) { return map[uint][]uint{}, nil },
		pendingFn:          func(context.Context, uint) ([]uint, error) { return nil, nil },
		sentFn:             func(context.Context, uint) ([]models.FriendRequestView, error) { return nil, nil },
		receivedFn:         func(context.Context, uint) ([]models.FriendRequestView, error) { return nil, nil },
		deleteAllFn:        func(context.Context, uint) error { return nil },
	}
}

type postRepoStub struct {
	repository.PostRepository
	lockForUpdateFn func(context.Context, uint) (*models.Post, error)
	hasLikeFn       func(context.Context, uint, uint) (bool, error)
	addLikeFn       func(context.Context, uint, uint) error
	removeLikeFn    func(context.Context, uint, uint) (bool, error)
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) LockForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	return s.lockForUpdateFn(ctx, id)
}
func (s *postRepoStub) HasLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.hasLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) AddLike(ctx context.Context, postID, userID uint) error {
	return s.addLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) RemoveLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.removeLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		lockForUpdateFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		hasLikeFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		addLikeFn:       func(context.Context, uint, uint) error { return nil },
		removeLikeFn:    func(context.Context, uint, uint) (bool, error) { return true, nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

type commentRepoStub struct {
	repository.CommentRepository
	lockForUpdateFn func(context.Context, uint) (*models.Comment, error)
	updateFn        func(context.Context, *models.Comment) error
	deleteFn        func(context.Context, uint) error
	addLikeFn       func(context.Context, uint, uint) error
}

func (s *commentRepoStub) LockForUpdate(ctx context.Context, id uint) (*models.Comment, error) {
	return s.lockForUpdateFn(ctx, id)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) AddLike(ctx context.Context, commentID, userID uint) error {
	return s.addLikeFn(ctx, commentID, userID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		lockForUpdateFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		updateFn:        func(context.Context, *models.Comment) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		addLikeFn:       func(context.Context, uint, uint) error { return nil },
	}
}

// stubStores returns a stores factory that ignores the handle it is given.
func stubStores(st repository.Stores) func(*gorm.DB) repository.Stores {
	return func(*gorm.DB) repository.Stores { return st }
}
