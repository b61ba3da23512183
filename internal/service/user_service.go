package service

import (
	"context"
	"fmt"
	"strings"

	"kinship/internal/events"
	"kinship/internal/models"
	"kinship/internal/observability"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxBioLen      = 500
	maxUsernameLen = 30
	maxNameLen     = 50
	minPasswordLen = 8
	searchLimit    = 20
)

// CodeVerifier checks a one-time code issued for an email.
type CodeVerifier interface {
	Verify(email, code string) bool
}

type UserService struct {
	graph
	codes CodeVerifier
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Code      string
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Bio       *string
}

// Profile is a user together with the pending requests on both sides.
type Profile struct {
	models.User
	Sent     []models.FriendRequestView `json:"sent_requests"`
	Received []models.FriendRequestView `json:"received_requests"`
}

func NewUserService(uow *events.UnitOfWork, codes CodeVerifier) *UserService {
	return &UserService{graph: newGraph(uow), codes: codes}
}

// Register creates an account for an email that holds a valid one-time code.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	switch {
	case email == "":
		return nil, models.NewValidationError("Email is required")
	case username == "":
		return nil, models.NewValidationError("Username is required")
	case len(username) > maxUsernameLen:
		return nil, models.NewValidationError("Username too long (max 30 characters)")
	case len(in.Password) < minPasswordLen:
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	st := s.read()
	exists, err := st.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("User already exists with email: " + email)
	}
	// Checked before the code is consumed so a taken name does not burn it.
	taken, err := st.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("Username already taken: " + username)
	}
	if s.codes == nil || !s.codes.Verify(email, in.Code) {
		return nil, models.NewConflictError("Invalid or expired verification code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := st.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the fields set in in and sends the user an account
// notice.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(tx *gorm.DB, out *events.Outbox) error {
		st := s.stores(tx)
		locked, err := st.Users.LockForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		user = &locked[0]

		if in.FirstName != nil {
			if len(*in.FirstName) > maxNameLen {
				return models.NewValidationError("First name too long (max 50 characters)")
			}
			user.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			if len(*in.LastName) > maxNameLen {
				return models.NewValidationError("Last name too long (max 50 characters)")
			}
			user.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Bio != nil {
			if len(*in.Bio) > maxBioLen {
				return models.NewValidationError("Bio too long (max 500 characters)")
			}
			user.Bio = *in.Bio
		}

		if err := st.Users.Update(ctx, user); err != nil {
			return err
		}
		out.Stage(events.ProfileUpdated(userID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete retracts the user from every shared set, removes what the user owns
// and finally the user row.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	return s.uow.Do(ctx, func(tx *gorm.DB, _ *events.Outbox) error {
		st := s.stores(tx)
		if _, err := st.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}

		if err := st.Friends.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		if err := st.Posts.DeleteLikesByUser(ctx, userID); err != nil {
			return err
		}
		if err := st.Comments.DeleteLikesByUser(ctx, userID); err != nil {
			return err
		}
		if err := st.Comments.DeleteAllByUser(ctx, userID); err != nil {
			return err
		}
		if err := st.Posts.DeleteAllByUser(ctx, userID); err != nil {
			return err
		}

		// Notifications are cleaned up best effort inside a savepoint.
		nerr := tx.Transaction(func(sp *gorm.DB) error {
			return s.stores(sp).Notifications.DeleteAllForUser(ctx, userID)
		})
		if nerr != nil {
			observability.NewRepoLogger("notifications").LogError(ctx, nerr, "delete_for_user")
		}

		if err := st.Users.Delete(ctx, userID); err != nil {
			return err
		}
		observability.NewRepoLogger("users").LogDelete(ctx, map[string]interface{}{"user_id": userID})
		return nil
	})
}

func (s *UserService) Get(ctx context.Context, id uint) (*Profile, error) {
	st := s.read()
	user, err := st.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sent, err := st.Friends.SentRequests(ctx, id)
	if err != nil {
		return nil, err
	}
	received, err := st.Friends.ReceivedRequests(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *user, Sent: sent, Received: received}, nil
}

func (s *UserService) Friends(ctx context.Context, id uint) ([]models.UserSummary, error) {
	st := s.read()
	if _, err := st.Users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	ids, err := st.Friends.FriendIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	users, err := st.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *UserService) Search(ctx context.Context, keyword string) ([]models.UserSummary, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	users, err := s.read().Users.Search(ctx, keyword, searchLimit)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// List pages through every user.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.UserSummary, error) {
	users, err := s.read().Users.List(ctx, pageLimit(limit), max(offset, 0))
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}
