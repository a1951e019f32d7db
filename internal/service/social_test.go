package service

import (
	"context"
	"errors"
	"testing"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/metrics"
	"github.com/JordyV23/social-app/internal/mocks"
	"github.com/JordyV23/social-app/internal/model"
	testlog "github.com/JordyV23/social-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSocial_GetUser(t *testing.T) {
	id := uuid.New()
	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, id).Return(model.User{ID: id, FirstName: "Ann"}, nil).Once()
	userStore.On("GetByID", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound).Once()

	s := NewSocial(userStore, nil, testlog.MakeNoopLogger())

	user, err := s.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.FirstName)

	_, err = s.GetUser(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeUserNotFound))
}

func TestSocial_GetFriends_SkipsDanglingIDs(t *testing.T) {
	ann := model.User{ID: uuid.New(), FirstName: "Ann"}
	bob := model.User{ID: uuid.New(), FirstName: "Bob", Occupation: "Chef"}
	gone := uuid.New()
	ann.Friends = []uuid.UUID{gone, bob.ID}

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Once()
	userStore.On("GetByID", mock.Anything, gone).Return(model.User{}, model.ErrNotFound).Once()
	userStore.On("GetByID", mock.Anything, bob.ID).Return(bob, nil).Once()

	s := NewSocial(userStore, nil, testlog.MakeNoopLogger())

	friends, err := s.GetFriends(context.Background(), ann.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.Summary(), friends[0])
}

func TestSocial_GetFriends_Errors(t *testing.T) {
	ann := model.User{ID: uuid.New(), Friends: []uuid.UUID{uuid.New()}}

	t.Run("unknown user", func(t *testing.T) {
		userStore := mocks.NewUserStore(t)
		userStore.On("GetByID", mock.Anything, ann.ID).Return(model.User{}, model.ErrNotFound).Once()

		_, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).GetFriends(context.Background(), ann.ID)
		assert.True(t, apperr.Is(err, apperr.CodeUserNotFound))
	})

	t.Run("friend lookup fails", func(t *testing.T) {
		userStore := mocks.NewUserStore(t)
		userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Once()
		userStore.On("GetByID", mock.Anything, ann.Friends[0]).Return(model.User{}, errors.New("io")).Once()

		_, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).GetFriends(context.Background(), ann.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get friend")
	})
}

func TestSocial_ToggleFriend_Add(t *testing.T) {
	ann := model.User{ID: uuid.New(), FirstName: "Ann", Friends: []uuid.UUID{}}
	bob := model.User{ID: uuid.New(), FirstName: "Bob", Friends: []uuid.UUID{}}

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Once()
	userStore.On("GetByID", mock.Anything, bob.ID).Return(bob, nil).Twice()
	userStore.On("UpdateFriends", mock.Anything,
		mock.MatchedBy(func(u model.User) bool { return u.ID == ann.ID && u.HasFriend(bob.ID) }),
		mock.MatchedBy(func(u model.User) bool { return u.ID == bob.ID && u.HasFriend(ann.ID) }),
	).Return(nil).Once()

	m := metrics.New()
	s := NewSocial(userStore, m, testlog.MakeNoopLogger())

	friends, err := s.ToggleFriend(context.Background(), ann.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	series, err := testutil.GatherAndCount(m.Registry(), "social_graph_friend_toggles_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestSocial_ToggleFriend_Remove(t *testing.T) {
	ann := model.User{ID: uuid.New(), FirstName: "Ann"}
	bob := model.User{ID: uuid.New(), FirstName: "Bob"}
	ann.Friends = []uuid.UUID{bob.ID}
	bob.Friends = []uuid.UUID{ann.ID}

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Once()
	userStore.On("GetByID", mock.Anything, bob.ID).Return(bob, nil).Once()
	userStore.On("UpdateFriends", mock.Anything,
		mock.MatchedBy(func(u model.User) bool { return u.ID == ann.ID && len(u.Friends) == 0 }),
		mock.MatchedBy(func(u model.User) bool { return u.ID == bob.ID && len(u.Friends) == 0 }),
	).Return(nil).Once()

	friends, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).ToggleFriend(context.Background(), ann.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestSocial_ToggleFriend_Self(t *testing.T) {
	id := uuid.New()
	s := NewSocial(mocks.NewUserStore(t), nil, testlog.MakeNoopLogger())

	_, err := s.ToggleFriend(context.Background(), id, id)
	apiErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeSelfFriendship, apiErr.Code)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSocial_ToggleFriend_UnknownFriend(t *testing.T) {
	ann := model.User{ID: uuid.New()}
	missing := uuid.New()

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Once()
	userStore.On("GetByID", mock.Anything, missing).Return(model.User{}, model.ErrNotFound).Once()

	_, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).ToggleFriend(context.Background(), ann.ID, missing)
	assert.True(t, apperr.Is(err, apperr.CodeUserNotFound))
}

func TestSocial_ToggleFriend_RetriesOnConflict(t *testing.T) {
	ann := model.User{ID: uuid.New()}
	bob := model.User{ID: uuid.New(), FirstName: "Bob"}

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Twice()
	userStore.On("GetByID", mock.Anything, bob.ID).Return(bob, nil).Times(3)
	userStore.On("UpdateFriends", mock.Anything, mock.Anything, mock.Anything).Return(model.ErrConflict).Once()
	userStore.On("UpdateFriends", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	friends, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).ToggleFriend(context.Background(), ann.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
}

func TestSocial_ToggleFriend_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ann := model.User{ID: uuid.New()}
	bob := model.User{ID: uuid.New()}

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Times(maxMutationAttempts)
	userStore.On("GetByID", mock.Anything, bob.ID).Return(bob, nil).Times(maxMutationAttempts)
	userStore.On("UpdateFriends", mock.Anything, mock.Anything, mock.Anything).Return(model.ErrConflict).Times(maxMutationAttempts)

	_, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).ToggleFriend(context.Background(), ann.ID, bob.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConcurrentUpdate))
}

func TestSocial_ToggleFriend_WriteFailure(t *testing.T) {
	ann := model.User{ID: uuid.New()}
	bob := model.User{ID: uuid.New()}

	userStore := mocks.NewUserStore(t)
	userStore.On("GetByID", mock.Anything, ann.ID).Return(ann, nil).Once()
	userStore.On("GetByID", mock.Anything, bob.ID).Return(bob, nil).Once()
	userStore.On("UpdateFriends", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("tx aborted")).Once()

	_, err := NewSocial(userStore, nil, testlog.MakeNoopLogger()).ToggleFriend(context.Background(), ann.ID, bob.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update friends")
}
