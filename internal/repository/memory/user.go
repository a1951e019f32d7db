package memory

import (
	"context"

	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return model.User{}, model.ErrEmailTaken
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := s.now()
	user = user.Clone()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Revision = 0

	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	s.persistLocked()

	return user.Clone(), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user.Clone(), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.users[id].Clone(), nil
}

func (r *UserRepository) UpdateFriends(_ context.Context, users ...model.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		stored, ok := s.users[u.ID]
		if !ok {
			return model.ErrNotFound
		}
		if stored.Revision != u.Revision {
			return model.ErrConflict
		}
	}

	now := s.now()
	for _, u := range users {
		stored := s.users[u.ID]
		stored.Friends = model.NormalizeFriends(u.ID, u.Friends)
		stored.UpdatedAt = now
		stored.Revision++
		s.users[u.ID] = stored
	}
	s.persistLocked()

	return nil
}
