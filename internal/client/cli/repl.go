package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Open(ctx context.Context, path string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help              show available commands
//	  - go <path>         open a page by path; a bare "/path" works too
//	  - home              open /
//	  - whoami            show the current session
//	  - exit | quit       leave the program
//
//	Not logged in:
//	  - login             open /login and fill in the form
//	  - register          open /register and fill in the form
//
//	Logged in:
//	  - dashboard         open /dashboard
//	  - logout            end the session
//
// The prompt and replies go to w, the same writer the pages render to.
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "authdesk %s > \n", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch {
		case cmd == "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: home, dashboard, go <path>, whoami, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: home, login, register, go <path>, whoami, exit")
			}

		case cmd == "go" || cmd == "open":
			if len(parts) < 2 {
				fmt.Fprintln(w, "Usage: go <path>")
				continue
			}
			_ = a.Open(ctx, parts[1])

		case strings.HasPrefix(cmd, "/"):
			_ = a.Open(ctx, cmd)

		case cmd == "home":
			_ = a.Open(ctx, "/")

		case cmd == "login", cmd == "register", cmd == "dashboard":
			_ = a.Open(ctx, "/"+cmd)

		case cmd == "logout":
			_ = a.Logout(ctx)

		case cmd == "whoami":
			_ = a.WhoAmI(ctx)

		case cmd == "exit", cmd == "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
