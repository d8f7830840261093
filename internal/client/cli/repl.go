package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// execIface is the command surface the shell needs. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context, in validation.SignupInput) error
	Login(ctx context.Context, in validation.LoginInput) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Dashboard(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a
// until EOF, "exit" or "quit". Handlers report their own errors to the
// user, so the loop ignores them.
//
//	Not logged in: help, signup, login, status, exit
//	Logged in:     help, dashboard, status, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gophauth (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: dashboard, status, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: signup, login, status, exit")
			}

		case "signup", "register":
			_ = a.Signup(ctx, validation.SignupInput{})

		case "login":
			in := validation.LoginInput{}
			if len(parts) > 1 {
				in.Email = parts[1]
			}
			_ = a.Login(ctx, in)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "dashboard", "admin":
			_ = a.Dashboard(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// shortStatus is the prompt decoration.
func (a *App) shortStatus() string {
	return describeShort(a.session.View())
}
