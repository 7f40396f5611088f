// Command quizctl talks to a running quiz API from the terminal.
//
//	quizctl [-server URL] [-token TOKEN] <command> [flags] [args]
//
// The token defaults to $QUIZ_TOKEN and the server to $QUIZ_SERVER.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	app, cmdArgs, err := newApp(args, stdout, stderr, getenv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if err := app.dispatch(ctx, cmdArgs); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
