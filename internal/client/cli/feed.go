package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JordyV23/social-app/internal/client/api"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

func (a *App) Home(ctx context.Context) error {
	posts, err := a.backend.GetFeed(ctx)
	if err != nil {
		return err
	}
	a.printPosts(posts)
	return nil
}

// Profile shows a user and their posts; without an argument it shows the caller.
func (a *App) Profile(ctx context.Context, args []string) error {
	userID := a.currentUserID()
	if len(args) > 0 {
		id, err := parseArgID(args[0])
		if err != nil {
			return err
		}
		userID = id
	}

	user, err := a.backend.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	posts, err := a.backend.GetUserPosts(ctx, userID)
	if err != nil {
		return err
	}

	a.println(fmt.Sprintf("%s %s", user.FirstName, user.LastName))
	a.println(fmt.Sprintf("  %s, %s", user.Occupation, user.Location))
	a.println(fmt.Sprintf("  %d friends, %d profile views, %d impressions",
		len(user.Friends), user.ViewedProfile, user.Impressions))
	a.printPosts(posts)
	return nil
}

func (a *App) Friends(ctx context.Context) error {
	friends, err := a.backend.GetFriends(ctx, a.currentUserID())
	if err != nil {
		return err
	}
	a.printFriends(friends)
	return nil
}

func (a *App) ToggleFriend(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: friend <userId>")
	}
	friendID, err := parseArgID(args[0])
	if err != nil {
		return err
	}

	friends, err := a.backend.ToggleFriend(ctx, a.currentUserID(), friendID)
	if err != nil {
		return err
	}
	a.session.User.Friends = friendIDs(friends)
	a.printFriends(friends)
	return nil
}

// Post publishes the arguments as text. A trailing @path attaches a picture.
func (a *App) Post(ctx context.Context, args []string) error {
	var picture *api.Picture
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "@") {
		path := strings.TrimPrefix(args[n-1], "@")
		file, err := a.openFile(path)
		if err != nil {
			return fmt.Errorf("cannot read picture: %w", err)
		}
		defer file.Close()
		picture = &api.Picture{Name: filepath.Base(path), Data: file}
		args = args[:n-1]
	}

	text := strings.Join(args, " ")
	if text == "" && picture == nil {
		return fmt.Errorf("usage: post <text> [@file]")
	}

	post, err := a.backend.CreatePost(ctx, a.currentUserID(), text, picture)
	if err != nil {
		return err
	}
	a.println("Posted", post.ID.String())
	return a.Home(ctx)
}

func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: like <postId>")
	}
	postID, err := parseArgID(args[0])
	if err != nil {
		return err
	}

	post, err := a.backend.ToggleLike(ctx, postID, a.currentUserID())
	if err != nil {
		return err
	}

	verb := "Unliked"
	if post.IsLikedBy(a.currentUserID()) {
		verb = "Liked"
	}
	a.println(fmt.Sprintf("%s. %d likes.", verb, len(post.Likes)))
	return nil
}

func (a *App) printPosts(posts []model.Post) {
	if len(posts) == 0 {
		a.println("No posts yet.")
		return
	}
	for _, p := range posts {
		a.println(fmt.Sprintf("[%s] %s (%s)", p.ID, p.FirstName, p.Location))
		if p.Description != "" {
			a.println("  " + p.Description)
		}
		if p.PicturePath != "" {
			a.println("  picture: " + a.backend.AssetURL(p.PicturePath))
		}
		liked := ""
		if p.IsLikedBy(a.currentUserID()) {
			liked = ", liked by you"
		}
		a.println(fmt.Sprintf("  %d likes, %d comments%s", len(p.Likes), len(p.Comments), liked))
	}
}

func (a *App) printFriends(friends []model.FriendSummary) {
	if len(friends) == 0 {
		a.println("No friends yet.")
		return
	}
	for _, f := range friends {
		a.println(fmt.Sprintf("[%s] %s %s, %s", f.ID, f.FirstName, f.LastName, f.Occupation))
	}
}

func friendIDs(friends []model.FriendSummary) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	return ids
}

func parseArgID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q is not a valid id", raw)
	}
	return id, nil
}
