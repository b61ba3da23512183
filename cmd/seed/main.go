// Command main runs the database seeder for kinship.
package main

import (
	"context"
	"flag"
	"log"

	"kinship/internal/bootstrap"
	"kinship/internal/config"
	"kinship/internal/middleware"
	"kinship/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	friendsPerUser := flag.Int("friends", defaults.FriendsPerUser, "Friendships started per user")
	requestsPerUser := flag.Int("requests", defaults.RequestsPerUser, "Pending requests sent per user")
	commentsPerPost := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	likesPerPost := flag.Int("likes", defaults.LikesPerPost, "Likes per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randomSeed := flag.Int64("seed", defaults.RandomSeed, "Random seed for reproducible data")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts each, clean=%v\n", *numUsers, *postsPerUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, middleware.Logger, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	summary, err := seed.Seed(ctx, rt.UoW, seed.Options{
		NumUsers:        *numUsers,
		PostsPerUser:    *postsPerUser,
		FriendsPerUser:  *friendsPerUser,
		RequestsPerUser: *requestsPerUser,
		CommentsPerPost: *commentsPerPost,
		LikesPerPost:    *likesPerPost,
		ShouldClean:     *shouldClean,
		RandomSeed:      *randomSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d likes, %d friendships, %d pending requests (%d skipped)",
		summary.Users, summary.Posts, summary.Comments, summary.Likes, summary.Friends, summary.Requests, summary.Skipped)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
