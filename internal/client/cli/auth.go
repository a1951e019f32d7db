package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JordyV23/social-app/internal/client/api"
	"github.com/go-playground/validator/v10"
)

type registerForm struct {
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required"`
	Location   string `validate:"required"`
	Occupation string `validate:"required"`
	Picture    string `validate:"required"`
}

var registerPrompts = []struct {
	label string
	field func(*registerForm) *string
}{
	{"First name", func(f *registerForm) *string { return &f.FirstName }},
	{"Last name", func(f *registerForm) *string { return &f.LastName }},
	{"Email", func(f *registerForm) *string { return &f.Email }},
	{"Location", func(f *registerForm) *string { return &f.Location }},
	{"Occupation", func(f *registerForm) *string { return &f.Occupation }},
	{"Picture file", func(f *registerForm) *string { return &f.Picture }},
}

// Register collects the sign-up form, validates it locally and submits it.
// The shell stays on the login page afterwards.
func (a *App) Register(ctx context.Context) error {
	var form registerForm
	for _, p := range registerPrompts {
		value, err := a.readLine(p.label)
		if err != nil {
			return err
		}
		*p.field(&form) = value
	}

	password, err := a.askPassword()
	if err != nil {
		return err
	}
	form.Password = password

	if err := a.validate.Struct(form); err != nil {
		return formError(err)
	}

	file, err := a.openFile(form.Picture)
	if err != nil {
		return fmt.Errorf("cannot read picture: %w", err)
	}
	defer file.Close()

	user, err := a.backend.Register(ctx, api.RegisterRequest{
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Email:      form.Email,
		Password:   form.Password,
		Location:   form.Location,
		Occupation: form.Occupation,
		Picture:    &api.Picture{Name: filepath.Base(form.Picture), Data: file},
	})
	if err != nil {
		return err
	}

	a.println("Registered", user.Email+". You can log in now.")
	return nil
}

// Login opens a session and shows the home feed.
func (a *App) Login(ctx context.Context) error {
	email, err := a.readLine("Email")
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}

	session, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.session = &session
	a.println("Welcome,", session.User.FirstName+"!")
	return a.Home(ctx)
}

func (a *App) Logout() {
	a.session = nil
	a.backend.SetToken("")
	a.println("Logged out.")
}

func (a *App) askPassword() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	pw, err := a.readPassword()
	a.println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

func formError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, "invalid email")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
