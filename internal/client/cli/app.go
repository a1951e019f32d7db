// Package cli implements the interactive social shell.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JordyV23/social-app/internal/client/api"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// Backend is the API surface the shell drives.
type Backend interface {
	Register(ctx context.Context, req api.RegisterRequest) (model.User, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	SetToken(token string)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	GetFriends(ctx context.Context, userID uuid.UUID) ([]model.FriendSummary, error)
	ToggleFriend(ctx context.Context, userID, friendID uuid.UUID) ([]model.FriendSummary, error)
	CreatePost(ctx context.Context, userID uuid.UUID, description string, picture *api.Picture) (model.Post, error)
	GetFeed(ctx context.Context) ([]model.Post, error)
	GetUserPosts(ctx context.Context, userID uuid.UUID) ([]model.Post, error)
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (model.Post, error)
	AssetURL(picturePath string) string
}

var errNotLoggedIn = errors.New("please log in first")

// App keeps the session of one user at the terminal.
type App struct {
	backend  Backend
	in       *bufio.Reader
	out      io.Writer
	validate *validator.Validate

	// readPassword reads a line without echo.
	readPassword func() ([]byte, error)
	// openFile opens pictures selected for upload.
	openFile func(name string) (io.ReadCloser, error)

	session *model.Session
}

func NewApp(backend Backend, in io.Reader, out io.Writer) *App {
	a := &App{
		backend:  backend,
		in:       bufio.NewReader(in),
		out:      out,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		openFile: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}

	// Piped input carries the password as a plain line.
	a.readPassword = a.readPlainPassword
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.readPassword = func() ([]byte, error) {
			return term.ReadPassword(int(f.Fd()))
		}
	}
	return a
}

func (a *App) readPlainPassword() ([]byte, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) prompt() string {
	if a.isLoggedIn() {
		return fmt.Sprintf("social (%s)> ", a.session.User.FirstName)
	}
	return "social> "
}

// Run reads commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Social. Type help for commands.")
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(a.out, a.prompt())

		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			a.println()
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "exit" || fields[0] == "quit" {
			return
		}
		if err := a.dispatch(ctx, fields[0], fields[1:]); err != nil {
			a.println("error:", err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.help()
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if isCommand(cmd) {
			return errNotLoggedIn
		}
		return fmt.Errorf("unknown command %q", cmd)
	}

	switch cmd {
	case "home", "feed":
		return a.Home(ctx)
	case "profile":
		return a.Profile(ctx, args)
	case "friends":
		return a.Friends(ctx)
	case "friend":
		return a.ToggleFriend(ctx, args)
	case "post":
		return a.Post(ctx, args)
	case "like":
		return a.Like(ctx, args)
	case "logout":
		a.Logout()
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func isCommand(cmd string) bool {
	switch cmd {
	case "home", "feed", "profile", "friends", "friend", "post", "like", "logout":
		return true
	}
	return false
}

func (a *App) help() {
	if !a.isLoggedIn() {
		a.println("Available commands: register, login, help, exit")
		return
	}
	a.println("Available commands:")
	a.println("  home | feed          show every post")
	a.println("  profile [userId]     show a profile and its posts")
	a.println("  friends              list your friends")
	a.println("  friend <userId>      add or remove a friend")
	a.println("  post <text> [@file]  publish a post, optionally with a picture")
	a.println("  like <postId>        like or unlike a post")
	a.println("  logout, help, exit")
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt+": ")
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) currentUserID() uuid.UUID {
	return a.session.User.ID
}
