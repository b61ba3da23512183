package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kinship/internal/database"
	"kinship/internal/events"
	"kinship/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	PostsPerUser    int
	FriendsPerUser  int
	RequestsPerUser int
	CommentsPerPost int
	LikesPerPost    int
	ShouldClean     bool
	// RandomSeed makes the run reproducible.
	RandomSeed int64
}

// DefaultOptions is a small, well connected graph.
func DefaultOptions() Options {
	return Options{
		NumUsers:        50,
		PostsPerUser:    3,
		FriendsPerUser:  4,
		RequestsPerUser: 1,
		CommentsPerPost: 2,
		LikesPerPost:    3,
	}
}

// Summary counts what a run created. Skipped counts graph operations that
// were refused, such as a request between users who are already friends.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Friends  int
	Requests int
	Skipped  int
}

// Seed populates the database with generated data. Relationship edges go
// through uow, so the bus receives one event per edge.
func Seed(ctx context.Context, uow *events.UnitOfWork, opts Options) (Summary, error) {
	var sum Summary
	logger := slog.Default()
	logger.Info("starting database seeding", slog.Int("users", opts.NumUsers))

	if opts.ShouldClean {
		if err := clearData(uow.DB()); err != nil {
			logger.Warn("could not clear existing data, continuing", slog.String("error", err.Error()))
		}
	}

	f, err := NewFactory(uow, opts.RandomSeed)
	if err != nil {
		return sum, err
	}

	users := make([]models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx, i)
		if err != nil {
			return sum, fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, *u)
	}
	sum.Users = len(users)

	// refused reports whether err is a graph rule rejecting the edge.
	refused := func(err error) bool {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeInvalidState {
			sum.Skipped++
			return true
		}
		return false
	}

	for i := range users {
		u := &users[i]
		for j := 0; j < opts.FriendsPerUser; j++ {
			other := f.pick(users, u.ID)
			if other == nil {
				break
			}
			if err := f.Befriend(ctx, u, other); err != nil {
				if refused(err) {
					continue
				}
				return sum, fmt.Errorf("failed to create friendship: %w", err)
			}
			sum.Friends++
		}
	}
	for i := range users {
		u := &users[i]
		for j := 0; j < opts.RequestsPerUser; j++ {
			other := f.pick(users, u.ID)
			if other == nil {
				break
			}
			if err := f.Request(ctx, u, other); err != nil {
				if refused(err) {
					continue
				}
				return sum, fmt.Errorf("failed to create request: %w", err)
			}
			sum.Requests++
		}
	}
	logger.Info("friend graph seeded", slog.Int("friendships", sum.Friends), slog.Int("pending", sum.Requests))

	for i := range users {
		author := &users[i]
		for j := 0; j < opts.PostsPerUser; j++ {
			post, err := f.CreatePost(ctx, author)
			if err != nil {
				return sum, fmt.Errorf("failed to create posts: %w", err)
			}
			sum.Posts++

			for k := 0; k < opts.CommentsPerPost; k++ {
				commenter := f.pick(users, 0)
				if commenter == nil {
					break
				}
				comment, err := f.CreateComment(ctx, commenter, post)
				if err != nil {
					return sum, fmt.Errorf("failed to create comment: %w", err)
				}
				sum.Comments++
				if liker := f.pick(users, comment.UserID); liker != nil {
					if err := f.LikeComment(ctx, liker, comment); err != nil && !refused(err) {
						return sum, fmt.Errorf("failed to like comment: %w", err)
					} else if err == nil {
						sum.Likes++
					}
				}
			}

			for k := 0; k < opts.LikesPerPost; k++ {
				liker := f.pick(users, author.ID)
				if liker == nil {
					break
				}
				if err := f.LikePost(ctx, liker, post); err != nil {
					if refused(err) {
						continue
					}
					return sum, fmt.Errorf("failed to like post: %w", err)
				}
				sum.Likes++
			}
		}
	}

	logger.Info("database seeding completed",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
		slog.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

func clearData(db *gorm.DB) error {
	slog.Info("clearing existing data")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE notifications, comment_likes, post_likes, comments, posts,
			friend_request_meta, friend_requests, friendships, users RESTART IDENTITY CASCADE;`).Error
	}
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
