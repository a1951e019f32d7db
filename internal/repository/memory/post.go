package memory

import (
	"context"
	"maps"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

var _ model.PostStore = (*PostRepository)(nil)

type PostRepository struct {
	store *Store
}

func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

func (r *PostRepository) Create(_ context.Context, post model.Post) (model.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if _, exists := s.posts[post.ID]; exists {
		return model.Post{}, model.ErrConflict
	}

	now := s.now()
	post = post.Clone()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Revision = 0

	s.posts[post.ID] = post
	s.postOrder = append(s.postOrder, post.ID)
	s.persistLocked()

	return post.Clone(), nil
}

func (r *PostRepository) GetByID(_ context.Context, id uuid.UUID) (model.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return model.Post{}, model.ErrNotFound
	}
	return post.Clone(), nil
}

func (r *PostRepository) List(_ context.Context) ([]model.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.Post, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		posts = append(posts, s.posts[id].Clone())
	}
	return posts, nil
}

func (r *PostRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.Post, 0)
	for _, id := range s.postOrder {
		if p := s.posts[id]; p.UserID == userID {
			posts = append(posts, p.Clone())
		}
	}
	return posts, nil
}

func (r *PostRepository) UpdateLikes(_ context.Context, id uuid.UUID, likes map[string]bool, expectedRevision int64) (model.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return model.Post{}, model.ErrNotFound
	}
	if post.Revision != expectedRevision {
		return model.Post{}, model.ErrConflict
	}

	post.Likes = maps.Clone(likes)
	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	post.UpdatedAt = s.now()
	post.Revision++
	s.posts[id] = post
	s.persistLocked()

	return post.Clone(), nil
}
