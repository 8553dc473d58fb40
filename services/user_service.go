package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"barhop-server/models"
	"barhop-server/store"
	"barhop-server/utils/errors"
)

const userCacheTTL = 5 * time.Minute

// UserService owns user CRUD, credentials, and the relationship maintainer:
// every follow/unfollow keeps the two denormalized arrays on both documents
// in step, compensating the first write when the second one fails.
type UserService struct {
	users     store.UserStore
	bars      store.BarStore
	cache     *redis.Client
	jwtSecret string
	log       *logrus.Entry
}

func NewUserService(users store.UserStore, bars store.BarStore, cache *redis.Client, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		bars:      bars,
		cache:     cache,
		jwtSecret: jwtSecret,
		log:       logrus.WithField("component", "user-service"),
	}
}

func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "HASH_ERROR", "Failed to process password", http.StatusInternalServerError)
	}

	user := &models.User{
		ID:            uuid.New().String(),
		Username:      username,
		Email:         email,
		PasswordHash:  string(passwordHash),
		FavTeams:      []string{},
		Following:     []string{},
		Followers:     []string{},
		FollowingBars: []string{},
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to create user", http.StatusInternalServerError)
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": username}).Info("User created")
	return user, nil
}

// Login verifies credentials and returns a signed JWT carrying the user id.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err == store.ErrNotFound {
		return "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	}
	if err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Failed to load user", http.StatusInternalServerError)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID":   user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}
	return tokenString, nil
}

// Get loads a user, reading through the Redis cache when one is configured.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}
	user, err := s.users.Get(ctx, id)
	if err == store.ErrNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to load user", http.StatusInternalServerError)
	}
	s.cacheSet(ctx, user)
	return user, nil
}

func (s *UserService) List(ctx context.Context, opts store.ListOptions) ([]models.User, error) {
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to list users", http.StatusInternalServerError)
	}
	return users, nil
}

func (s *UserService) Search(ctx context.Context, keyword string) ([]models.User, error) {
	users, err := s.users.Search(ctx, keyword)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to search users", http.StatusInternalServerError)
	}
	return users, nil
}

func (s *UserService) UpdateUsername(ctx context.Context, id, username string) (*models.User, error) {
	user, err := s.users.UpdateUsername(ctx, id, username)
	if err == store.ErrNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to update user", http.StatusInternalServerError)
	}
	s.cacheDrop(ctx, id)
	return user, nil
}

// Delete removes the user and cleans the back-references pointing at it:
// every other user's following/followers and every bar's followers. Cleanup
// failures after the committed delete are logged, not surfaced.
func (s *UserService) Delete(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.Delete(ctx, id)
	if err == store.ErrNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to delete user", http.StatusInternalServerError)
	}
	if err := s.users.PullUserRefs(ctx, id); err != nil {
		s.log.WithError(err).WithField("user_id", id).Error("Failed to clean user back-references")
	}
	if err := s.bars.PullFollower(ctx, id); err != nil {
		s.log.WithError(err).WithField("user_id", id).Error("Failed to clean bar followers")
	}
	s.cacheDrop(ctx, id)
	s.log.WithField("user_id", id).Info("User deleted")
	return user, nil
}

// FollowUser adds targetID to the actor's following set and the actor to the
// target's followers set. Both writes are idempotent; a failed second write
// is compensated by reverting the first.
func (s *UserService) FollowUser(ctx context.Context, actorID, targetID string) (*models.User, error) {
	if actorID == targetID {
		return nil, errors.NewAPIError("SELF_FOLLOW", "Cannot follow yourself", http.StatusBadRequest)
	}
	if _, err := s.users.Get(ctx, targetID); err != nil {
		return nil, s.notFoundOr(err, "Failed to load target user")
	}
	if err := s.users.AddFollowing(ctx, actorID, targetID); err != nil {
		return nil, s.notFoundOr(err, "Failed to follow user")
	}
	if err := s.users.AddFollower(ctx, targetID, actorID); err != nil {
		s.compensate(ctx, actorID, targetID, func() error {
			return s.users.RemoveFollowing(ctx, actorID, targetID)
		})
		return nil, errors.Wrap(err, "FOLLOW_FAILED", "Failed to follow user", http.StatusInternalServerError)
	}
	s.cacheDrop(ctx, actorID, targetID)
	return s.reload(ctx, actorID)
}

// UnfollowUser removes the relation from both sides. Removing a relation
// that does not exist is a no-op.
func (s *UserService) UnfollowUser(ctx context.Context, actorID, targetID string) (*models.User, error) {
	if err := s.users.RemoveFollowing(ctx, actorID, targetID); err != nil {
		return nil, s.notFoundOr(err, "Failed to unfollow user")
	}
	if err := s.users.RemoveFollower(ctx, targetID, actorID); err != nil && err != store.ErrNotFound {
		s.compensate(ctx, actorID, targetID, func() error {
			return s.users.AddFollowing(ctx, actorID, targetID)
		})
		return nil, errors.Wrap(err, "UNFOLLOW_FAILED", "Failed to unfollow user", http.StatusInternalServerError)
	}
	s.cacheDrop(ctx, actorID, targetID)
	return s.reload(ctx, actorID)
}

// FollowBar pairs user.followingBars with bar.followers.
func (s *UserService) FollowBar(ctx context.Context, userID, barID string) (*models.User, error) {
	if _, err := s.bars.Get(ctx, barID); err != nil {
		return nil, s.notFoundOr(err, "Failed to load bar")
	}
	if err := s.users.AddFollowingBar(ctx, userID, barID); err != nil {
		return nil, s.notFoundOr(err, "Failed to follow bar")
	}
	if err := s.bars.AddFollower(ctx, barID, userID); err != nil {
		s.compensate(ctx, userID, barID, func() error {
			return s.users.RemoveFollowingBar(ctx, userID, barID)
		})
		return nil, errors.Wrap(err, "FOLLOW_BAR_FAILED", "Failed to follow bar", http.StatusInternalServerError)
	}
	s.cacheDrop(ctx, userID)
	return s.reload(ctx, userID)
}

func (s *UserService) UnfollowBar(ctx context.Context, userID, barID string) (*models.User, error) {
	if err := s.users.RemoveFollowingBar(ctx, userID, barID); err != nil {
		return nil, s.notFoundOr(err, "Failed to unfollow bar")
	}
	if err := s.bars.RemoveFollower(ctx, barID, userID); err != nil && err != store.ErrNotFound {
		s.compensate(ctx, userID, barID, func() error {
			return s.users.AddFollowingBar(ctx, userID, barID)
		})
		return nil, errors.Wrap(err, "UNFOLLOW_BAR_FAILED", "Failed to unfollow bar", http.StatusInternalServerError)
	}
	s.cacheDrop(ctx, userID)
	return s.reload(ctx, userID)
}

// AddFavTeam is single-sided: teams carry no back-reference.
func (s *UserService) AddFavTeam(ctx context.Context, userID, teamID string) (*models.User, error) {
	if err := s.users.AddFavTeam(ctx, userID, teamID); err != nil {
		return nil, s.notFoundOr(err, "Failed to add favorite team")
	}
	s.cacheDrop(ctx, userID)
	return s.reload(ctx, userID)
}

func (s *UserService) RemoveFavTeam(ctx context.Context, userID, teamID string) (*models.User, error) {
	if err := s.users.RemoveFavTeam(ctx, userID, teamID); err != nil {
		return nil, s.notFoundOr(err, "Failed to remove favorite team")
	}
	s.cacheDrop(ctx, userID)
	return s.reload(ctx, userID)
}

func (s *UserService) reload(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "Failed to load user")
	}
	return user, nil
}

// compensate reverts the first half of a dual-document update after the
// second half failed, so the relation never stays one-sided.
func (s *UserService) compensate(ctx context.Context, leftID, rightID string, revert func() error) {
	if err := revert(); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"left_id":  leftID,
			"right_id": rightID,
		}).Error("Compensation failed, relation left asymmetric")
	}
}

func (s *UserService) notFoundOr(err error, message string) *errors.APIError {
	if err == store.ErrNotFound {
		return errors.ErrNotFound
	}
	return errors.Wrap(err, "DB_ERROR", message, http.StatusInternalServerError)
}

func (s *UserService) cacheGet(ctx context.Context, id string) *models.User {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, "user:"+id).Result()
	if err != nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("Dropping corrupt cache entry")
		s.cache.Del(ctx, "user:"+id)
		return nil
	}
	return &user
}

func (s *UserService) cacheSet(ctx context.Context, user *models.User) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.cache.Set(ctx, "user:"+user.ID, data, userCacheTTL)
}

func (s *UserService) cacheDrop(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		s.cache.Del(ctx, "user:"+id)
	}
}
