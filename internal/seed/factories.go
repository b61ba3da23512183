// Package seed provides helpers to create demo data for the application
// database. Every edge of the social graph is created through the graph
// services so seeded data obeys the same rules as live traffic. These
// helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"kinship/internal/events"
	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them.
type Factory struct {
	users    repository.UserRepository
	friends  *service.FriendService
	posts    *service.PostService
	comments *service.CommentService

	faker *gofakeit.Faker
	rng   *rand.Rand
	hash  string
}

// NewFactory creates a Factory over uow. seed makes the generated data
// reproducible; 0 picks a random seed.
func NewFactory(uow *events.UnitOfWork, seed int64) (*Factory, error) {
	// MinCost keeps large seeds fast; these accounts are throwaway.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	rng := rand.New(rand.NewSource(seed))
	return &Factory{
		users:    repository.NewUserRepository(uow.DB()),
		friends:  service.NewFriendService(uow),
		posts:    service.NewPostService(uow),
		comments: service.NewCommentService(uow),
		faker:    gofakeit.New(seed),
		rng:      rng,
		hash:     string(hash),
	}, nil
}

// CreateUser inserts a user with generated profile fields. n keeps the
// username and email unique within one run.
func (f *Factory) CreateUser(ctx context.Context, n int, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	username := fmt.Sprintf("%s%d", f.faker.Username(), n)
	user := &models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  f.hash,
		FirstName: first,
		LastName:  last,
		Bio:       f.faker.Sentence(10),
	}
	for _, o := range overrides {
		o(user)
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (f *Factory) CreatePost(ctx context.Context, user *models.User) (*models.Post, error) {
	return f.posts.Create(ctx, service.CreatePostInput{
		UserID:  user.ID,
		Content: f.faker.Paragraph(1, 3, 8, "\n"),
	})
}

func (f *Factory) CreateComment(ctx context.Context, user *models.User, post *models.Post) (*models.Comment, error) {
	return f.comments.Create(ctx, service.CreateCommentInput{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: f.faker.Sentence(8),
	})
}

func (f *Factory) LikePost(ctx context.Context, user *models.User, post *models.Post) error {
	return f.posts.LikePost(ctx, user.ID, post.ID)
}

func (f *Factory) LikeComment(ctx context.Context, user *models.User, comment *models.Comment) error {
	return f.comments.LikeComment(ctx, user.ID, comment.ID)
}

// Befriend sends a request from a to b and has b accept it.
func (f *Factory) Befriend(ctx context.Context, a, b *models.User) error {
	if err := f.friends.SendRequest(ctx, a.ID, b.ID); err != nil {
		return err
	}
	return f.friends.AcceptRequest(ctx, b.ID, a.ID)
}

// Request leaves a pending request from a to b.
func (f *Factory) Request(ctx context.Context, a, b *models.User) error {
	return f.friends.SendRequest(ctx, a.ID, b.ID)
}

// pick returns a random user other than self.
func (f *Factory) pick(users []models.User, self uint) *models.User {
	if len(users) < 2 {
		return nil
	}
	for {
		u := &users[f.rng.Intn(len(users))]
		if u.ID != self {
			return u
		}
	}
}
