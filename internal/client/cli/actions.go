package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// ErrInvalidInput is returned after field errors were already printed.
var ErrInvalidInput = errors.New("invalid input")

// reportedError marks an error whose message the user has already seen.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported tells main not to print err again.
func Reported(err error) bool {
	var r *reportedError
	return errors.Is(err, ErrInvalidInput) || errors.As(err, &r)
}

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) ask(value *string, prompt string) error {
	if *value != "" {
		return nil
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (a *App) printFieldErrors(fields []validation.FieldError) {
	for _, f := range fields {
		for _, m := range f.Messages {
			a.printf("  %s: %s\n", f.Field, m)
		}
	}
}

// Signup prompts for whatever in is missing, validates locally and only
// then calls the server.
func (a *App) Signup(ctx context.Context, in validation.SignupInput) error {
	if err := a.ask(&in.Username, "Username"); err != nil {
		return err
	}
	if err := a.ask(&in.Email, "Email"); err != nil {
		return err
	}
	var err error
	if in.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}
	if in.ConfirmPassword, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}

	if fields, ok := validation.SignupFields(in); !ok {
		a.printf("Signup form has errors:\n")
		a.printFieldErrors(fields)
		return ErrInvalidInput
	}

	err = a.session.Signup(ctx, client.SignupRequest{
		Username:        in.Username,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	})
	return a.report(err, "Account created")
}

// Login behaves like Signup with the login form.
func (a *App) Login(ctx context.Context, in validation.LoginInput) error {
	if err := a.ask(&in.Email, "Email"); err != nil {
		return err
	}
	var err error
	if in.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}

	if fields, ok := validation.LoginFields(in); !ok {
		a.printf("Login form has errors:\n")
		a.printFieldErrors(fields)
		return ErrInvalidInput
	}

	err = a.session.Login(ctx, client.LoginRequest{Email: in.Email, Password: in.Password})
	return a.report(err, "Logged in")
}

func (a *App) report(err error, success string) error {
	if err != nil {
		a.printf("%s\n", a.session.View().Err)
		return &reportedError{err}
	}
	v := a.session.View()
	if v.User == nil {
		a.printf("%s\n", success)
		return nil
	}
	a.printf("%s as %s <%s>\n", success, v.User.Username, v.User.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.printf("Logged out\n")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	a.session.CheckExpiry(ctx)
	a.printf("%s\n", a.status())
	return nil
}

// Dashboard shows the protected page, or tells the user to log in.
func (a *App) Dashboard(ctx context.Context) error {
	res, err := a.session.Dashboard(ctx)
	switch {
	case err == nil:
		a.printf("%s\n", res.Message)
		return nil
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, client.ErrUnauthorized):
		a.printf("Please log in first\n")
	default:
		a.printf("%s\n", client.DisplayMessage(err))
	}
	return &reportedError{err}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// printView is the OnChange listener used by interactive commands.
func (a *App) printView(v session.View) {
	if v.State == session.Authenticating {
		return
	}
	a.printf("[session] %s\n", describeShort(v))
}

func describeShort(v session.View) string {
	if v.State == session.Authenticated && v.User != nil {
		return fmt.Sprintf("logged in as %s", v.User.Username)
	}
	return v.State.String()
}
