package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/metrics"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/password"
	"github.com/google/uuid"
)

// counterSeedLimit bounds the random viewedProfile and impressions seeds.
const counterSeedLimit = 10000

// Auth registers accounts and opens sessions.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	metrics      *metrics.Metrics
	logger       *logger.Logger
	seed         func(n int) int
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		metrics:      metrics,
		logger:       logger,
		seed:         rand.Intn,
	}
}

// Register stores a new account with a bcrypt hash of the password.
func (s *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	if err := validateRegistration(params); err != nil {
		s.metrics.RecordRegistration(metrics.ResultFailure)
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.metrics.RecordRegistration(metrics.ResultFailure)
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	user := model.User{
		ID:            id,
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Email:         params.Email,
		PasswordHash:  hash,
		PicturePath:   params.PicturePath,
		Friends:       []uuid.UUID{},
		Location:      params.Location,
		Occupation:    params.Occupation,
		ViewedProfile: s.seed(counterSeedLimit),
		Impressions:   s.seed(counterSeedLimit),
	}

	saved, err := s.userStore.Create(ctx, user)
	if err != nil {
		s.metrics.RecordRegistration(metrics.ResultFailure)
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Info("Auth service: email already registered", "email", params.Email)
			return model.User{}, apperr.NewErrEmailIsTaken()
		}
		s.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err)
		return model.User{}, apperr.NewErrUserNotCreated()
	}

	s.metrics.RecordRegistration(metrics.ResultSuccess)
	s.logger.Info("Auth service: user registered", "user_id", saved.ID)

	friends := model.NormalizeFriends(id, params.Friends)
	if len(friends) == 0 {
		return saved, nil
	}

	linked, err := s.linkInitialFriends(ctx, saved.ID, friends)
	if err != nil {
		// the account exists; it just starts without friends
		s.logger.Warn("Auth service: failed to link initial friends",
			"user_id", saved.ID,
			"error", err)
		return saved, nil
	}
	return linked, nil
}

// linkInitialFriends writes both sides of every initial friend edge in one
// store operation. Ids that do not resolve to a user are dropped.
func (s *Auth) linkInitialFriends(ctx context.Context, userID uuid.UUID, friendIDs []uuid.UUID) (model.User, error) {
	var (
		linked  model.User
		written bool
	)
	err := retryOnConflict(func() error {
		user, err := s.userStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		batch := []model.User{user}
		for _, friendID := range friendIDs {
			friend, err := s.userStore.GetByID(ctx, friendID)
			if errors.Is(err, model.ErrNotFound) {
				s.logger.Debug("Auth service: skipping unknown initial friend",
					"user_id", userID,
					"friend_id", friendID)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to get friend: %w", err)
			}
			batch[0].AddFriend(friendID)
			friend.AddFriend(userID)
			batch = append(batch, friend)
		}
		if len(batch) == 1 {
			linked = user
			return nil
		}

		if err := s.userStore.UpdateFriends(ctx, batch...); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to update friends: %w", err)
		}
		written = true
		return nil
	}, func() {
		s.metrics.RecordConflictRetry("user")
	})
	if err != nil || !written {
		return linked, err
	}

	linked, err = s.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to reload user: %w", err)
	}
	return linked, nil
}

func validateRegistration(params model.RegisterParams) error {
	required := []struct {
		field string
		value string
	}{
		{"firstName", params.FirstName},
		{"lastName", params.LastName},
		{"email", params.Email},
		{"password", params.Password},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return apperr.NewErrValidation("required: " + strings.Join(missing, ", "))
	}
	return nil
}

// Login verifies the password for email and issues a session token.
func (s *Auth) Login(ctx context.Context, email, plaintext string) (model.Session, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultFailure)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Debug("Auth service: login for unknown email", "email", email)
			return model.Session{}, apperr.NewErrUnknownLogin()
		}
		return model.Session{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, plaintext); err != nil {
		s.metrics.RecordLogin(metrics.ResultFailure)
		if errors.Is(err, password.ErrMismatch) {
			s.logger.Debug("Auth service: password mismatch", "user_id", user.ID)
			return model.Session{}, apperr.NewErrInvalidCredentials()
		}
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.tokenManager.GenerateToken(user.ID)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultFailure)
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.RecordLogin(metrics.ResultSuccess)
	s.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return model.Session{Token: token, User: user}, nil
}
