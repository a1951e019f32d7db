package service

import (
	"context"
	"sync"
	"testing"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/password"
	"github.com/JordyV23/social-app/internal/repository/memory"
	"github.com/JordyV23/social-app/internal/testutil"
	"github.com/JordyV23/social-app/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	auth   *Auth
	social *Social
	feed   *Feed
	tokens *TokenService
}

func newMemoryServices(t *testing.T) services {
	t.Helper()
	log := testutil.MakeNoopLogger()
	store, err := memory.NewStore("", log)
	require.NoError(t, err)

	users := memory.NewUserRepository(store)
	posts := memory.NewPostRepository(store)
	jwt := token.NewJWT("test-secret", 0)

	return services{
		auth:   NewAuth(users, password.NewBcrypt(4), jwt, nil, log),
		social: NewSocial(users, nil, log),
		feed:   NewFeed(posts, users, nil, log),
		tokens: NewTokenService(jwt, log),
	}
}

func register(t *testing.T, s services, first, email string) model.User {
	t.Helper()
	user, err := s.auth.Register(context.Background(), model.RegisterParams{
		FirstName: first,
		LastName:  "Test",
		Email:     email,
		Password:  "pw-" + first,
		Location:  "Lima",
	})
	require.NoError(t, err)
	return user
}

func TestScenario_RegisterLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newMemoryServices(t)

	ann := register(t, s, "Ann", "ann@example.com")
	assert.NotEqual(t, "pw-Ann", ann.PasswordHash)

	_, err := s.auth.Register(ctx, model.RegisterParams{FirstName: "X", LastName: "Y", Email: "ann@example.com", Password: "z"})
	assert.True(t, apperr.Is(err, apperr.CodeEmailTaken))

	session, err := s.auth.Login(ctx, "ann@example.com", "pw-Ann")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, session.User.ID)

	userID, err := s.tokens.GetUserID(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, userID)

	_, err = s.auth.Login(ctx, "ann@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidCredentials))
}

func TestScenario_InitialFriendsAreSymmetric(t *testing.T) {
	ctx := context.Background()
	s := newMemoryServices(t)

	ann := register(t, s, "Ann", "ann@example.com")
	bob, err := s.auth.Register(ctx, model.RegisterParams{
		FirstName: "Bob",
		LastName:  "Test",
		Email:     "bob@example.com",
		Password:  "pw-Bob",
		Friends:   []uuid.UUID{ann.ID, uuid.New()},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ann.ID}, bob.Friends)

	annFriends, err := s.social.GetFriends(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, annFriends, 1)
	assert.Equal(t, bob.ID, annFriends[0].ID)

	// one toggle removes the edge on both sides
	_, err = s.social.ToggleFriend(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	storedBob, err := s.social.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, storedBob.Friends)
}

func TestScenario_FriendshipIsSymmetric(t *testing.T) {
	ctx := context.Background()
	s := newMemoryServices(t)
	ann := register(t, s, "Ann", "ann@example.com")
	bob := register(t, s, "Bob", "bob@example.com")

	friends, err := s.social.ToggleFriend(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	bobFriends, err := s.social.GetFriends(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, ann.ID, bobFriends[0].ID)

	// toggling from the other side removes the edge for both
	friends, err = s.social.ToggleFriend(ctx, bob.ID, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	annFriends, err := s.social.GetFriends(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, annFriends)
}

func TestScenario_ConcurrentFriendTogglesStaySymmetric(t *testing.T) {
	ctx := context.Background()
	s := newMemoryServices(t)
	ann := register(t, s, "Ann", "ann@example.com")

	var others []uuid.UUID
	for _, name := range []string{"Bob", "Cid", "Dee", "Eve"} {
		others = append(others, register(t, s, name, name+"@example.com").ID)
	}

	var wg sync.WaitGroup
	for _, id := range others {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			// retries are bounded, so a toggle may give up under contention
			_, _ = s.social.ToggleFriend(ctx, id, ann.ID)
		}(id)
	}
	wg.Wait()

	annUser, err := s.social.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	for _, id := range others {
		other, err := s.social.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, annUser.HasFriend(id), other.HasFriend(ann.ID), "edge with %s is one-sided", id)
	}
}

func TestScenario_PostsAndLikes(t *testing.T) {
	ctx := context.Background()
	s := newMemoryServices(t)
	ann := register(t, s, "Ann", "ann@example.com")
	bob := register(t, s, "Bob", "bob@example.com")

	first, err := s.feed.CreatePost(ctx, model.CreatePostParams{UserID: ann.ID, Description: "first"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", first.FirstName)
	assert.Equal(t, "Lima", first.Location)
	assert.Empty(t, first.Likes)

	_, err = s.feed.CreatePost(ctx, model.CreatePostParams{UserID: bob.ID, Description: "second"})
	require.NoError(t, err)

	feed, err := s.feed.GetFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "first", feed[0].Description)

	mine, err := s.feed.GetUserPosts(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	liked, err := s.feed.ToggleLike(ctx, first.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked.IsLikedBy(bob.ID))

	unliked, err := s.feed.ToggleLike(ctx, first.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, unliked.IsLikedBy(bob.ID))
	assert.NotContains(t, unliked.Likes, bob.ID.String())

	_, err = s.feed.CreatePost(ctx, model.CreatePostParams{UserID: uuid.New(), Description: "ghost"})
	assert.True(t, apperr.Is(err, apperr.CodeUserNotFound))
}
