package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/metrics"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

// Social reads profiles and maintains the symmetric friend graph.
type Social struct {
	userStore model.UserStore
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewSocial(userStore model.UserStore, metrics *metrics.Metrics, logger *logger.Logger) *Social {
	return &Social{
		userStore: userStore,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *Social) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apperr.NewErrUserNotFound()
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetFriends resolves the user's friend list in stored order.
func (s *Social) GetFriends(ctx context.Context, userID uuid.UUID) ([]model.FriendSummary, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, user)
}

// ToggleFriend removes the edge between userID and friendID when it exists
// and creates it otherwise, writing both users together. It returns the
// caller's updated friend list.
func (s *Social) ToggleFriend(ctx context.Context, userID, friendID uuid.UUID) ([]model.FriendSummary, error) {
	if userID == friendID {
		return nil, apperr.NewErrSelfFriendship()
	}

	var (
		updated model.User
		action  string
	)
	err := retryOnConflict(func() error {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		friend, err := s.GetUser(ctx, friendID)
		if err != nil {
			return err
		}

		if user.HasFriend(friendID) {
			user.RemoveFriend(friendID)
			friend.RemoveFriend(userID)
			action = metrics.ActionRemove
		} else {
			user.AddFriend(friendID)
			friend.AddFriend(userID)
			action = metrics.ActionAdd
		}

		if err := s.userStore.UpdateFriends(ctx, user, friend); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to update friends: %w", err)
		}

		updated = user
		return nil
	}, func() {
		s.metrics.RecordConflictRetry("user")
		s.logger.Debug("Social service: friend update conflicted, retrying",
			"user_id", userID,
			"friend_id", friendID)
	})
	if err != nil {
		if apperr.Is(err, apperr.CodeConcurrentUpdate) {
			s.logger.Warn("Social service: friend update kept conflicting",
				"user_id", userID,
				"friend_id", friendID)
		}
		return nil, err
	}

	s.metrics.RecordFriendToggle(action)
	s.logger.Info("Social service: friendship toggled",
		"user_id", userID,
		"friend_id", friendID,
		"action", action)

	return s.summarize(ctx, updated)
}

func (s *Social) summarize(ctx context.Context, user model.User) ([]model.FriendSummary, error) {
	friends := make([]model.FriendSummary, 0, len(user.Friends))
	for _, id := range user.Friends {
		friend, err := s.userStore.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				s.logger.Warn("Social service: skipping dangling friend id",
					"user_id", user.ID,
					"friend_id", id)
				continue
			}
			return nil, fmt.Errorf("failed to get friend: %w", err)
		}
		friends = append(friends, friend.Summary())
	}
	return friends, nil
}
