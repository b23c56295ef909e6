package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Open(ctx context.Context, location string) error
	Login(ctx context.Context, callback string) error
	Register(ctx context.Context) error
	Reset(ctx context.Context) error
	ResetLink(ctx context.Context, id string) error
	Profile(ctx context.Context) error
	Verify(ctx context.Context) error
	Google(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Learnly CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current auth state (from statusFn) and accepts:
//
//	Not logged in:
//	  - login [callback]  - sign in with email or username
//	  - google            - sign in with Google
//	  - register          - create an account
//	  - reset             - request a password reset link
//	  - reset-link <id>   - set a new password through a reset link
//
//	Logged in:
//	  - profile           - show the signed-in user
//	  - verify            - confirm the account with a one-time code
//	  - refresh           - renew the access token now
//	  - logout            - sign out
//
//	Always:
//	  - open <path>       - navigate to a page
//	  - status            - show the session state
//	  - help, exit | quit
//
// Command errors are not fatal; handlers report them to the user and the
// loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("learnly %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, verify, refresh, logout, open <path>, status, exit")
			} else {
				printlnFn("Available commands: login [callback], google, register, reset, reset-link <id>, open <path>, status, exit")
			}

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "login":
			_ = a.Login(ctx, firstArg(args))

		case "google":
			_ = a.Google(ctx)

		case "register":
			_ = a.Register(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "reset-link":
			_ = a.ResetLink(ctx, firstArg(args))

		case "profile":
			_ = a.Profile(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
