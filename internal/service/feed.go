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

// Feed publishes posts, lists them and toggles likes.
type Feed struct {
	postStore model.PostStore
	userStore model.UserStore
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewFeed(postStore model.PostStore, userStore model.UserStore, metrics *metrics.Metrics, logger *logger.Logger) *Feed {
	return &Feed{
		postStore: postStore,
		userStore: userStore,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreatePost copies the author's name, location and picture into the post.
func (s *Feed) CreatePost(ctx context.Context, params model.CreatePostParams) (model.Post, error) {
	author, err := s.userStore.GetByID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Post{}, apperr.NewErrUserNotFound()
		}
		return model.Post{}, fmt.Errorf("failed to get author: %w", err)
	}

	created, err := s.postStore.Create(ctx, model.Post{
		ID:              uuid.New(),
		UserID:          author.ID,
		FirstName:       author.FirstName,
		Location:        author.Location,
		Description:     params.Description,
		PicturePath:     params.PicturePath,
		UserPicturePath: author.PicturePath,
		Likes:           map[string]bool{},
		Comments:        []string{},
	})
	if err != nil {
		s.logger.Error("Feed service: failed to create post",
			"user_id", params.UserID,
			"error", err)
		return model.Post{}, apperr.NewErrPostNotCreated()
	}

	post, err := s.postStore.GetByID(ctx, created.ID)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to reload post: %w", err)
	}

	s.metrics.RecordPostCreated()
	s.logger.Info("Feed service: post created",
		"post_id", post.ID,
		"user_id", post.UserID)

	return post, nil
}

// GetFeed returns every post in store order.
func (s *Feed) GetFeed(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *Feed) GetUserPosts(ctx context.Context, userID uuid.UUID) ([]model.Post, error) {
	posts, err := s.postStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	return posts, nil
}

// ToggleLike flips userID's like on the post and returns the stored result.
func (s *Feed) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (model.Post, error) {
	var (
		updated model.Post
		action  string
	)
	err := retryOnConflict(func() error {
		post, err := s.postStore.GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return apperr.NewErrPostNotFound()
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		action = metrics.ActionAdd
		if post.IsLikedBy(userID) {
			action = metrics.ActionRemove
		}

		updated, err = s.postStore.UpdateLikes(ctx, post.ID, post.ToggledLikes(userID), post.Revision)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrConflict):
				return err
			case errors.Is(err, model.ErrNotFound):
				return apperr.NewErrPostNotFound()
			}
			return fmt.Errorf("failed to update likes: %w", err)
		}
		return nil
	}, func() {
		s.metrics.RecordConflictRetry("post")
		s.logger.Debug("Feed service: like update conflicted, retrying",
			"post_id", postID,
			"user_id", userID)
	})
	if err != nil {
		return model.Post{}, err
	}

	s.metrics.RecordLikeToggle(action)
	s.logger.Debug("Feed service: like toggled",
		"post_id", postID,
		"user_id", userID,
		"action", action)

	return updated, nil
}
