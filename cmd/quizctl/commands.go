package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vaughan-dsouza/QuizGo/internal/client"
	"golang.org/x/term"
)

const defaultServer = "http://localhost:4000"

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type app struct {
	api    *client.Client
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register":           {"register -email EMAIL", (*app).register},
	"login":              {"login -email EMAIL", (*app).login},
	"me":                 {"me", (*app).me},
	"submit":             {"submit -score N -attempted N -correct N -time SECONDS", (*app).submit},
	"results":            {"results", (*app).results},
	"admin-users":        {"admin-users", (*app).adminUsers},
	"admin-results":      {"admin-results", (*app).adminResults},
	"admin-delete":       {"admin-delete USER_ID", (*app).adminDelete},
	"admin-user-results": {"admin-user-results USER_ID", (*app).adminUserResults},
}

func newApp(args []string, stdout, stderr io.Writer, getenv func(string) string) (*app, []string, error) {
	fs := flag.NewFlagSet("quizctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	server := fs.String("server", firstNonEmpty(getenv("QUIZ_SERVER"), defaultServer), "API base URL")
	tok := fs.String("token", getenv("QUIZ_TOKEN"), "bearer token")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() == 0 {
		usage(stderr, fs)
		return nil, nil, errors.New("missing command")
	}

	return &app{
		api:    client.New(*server, client.WithToken(*tok)),
		stdout: stdout,
		stderr: stderr,
	}, fs.Args(), nil
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: quizctl [-server URL] [-token TOKEN] <command>")
	fmt.Fprintln(w, "commands:")
	for _, name := range []string{"register", "login", "me", "submit", "results",
		"admin-users", "admin-results", "admin-delete", "admin-user-results"} {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
	fs.PrintDefaults()
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

// ---------------------- AUTH ----------------------

func (a *app) register(ctx context.Context, args []string) error {
	email, pass, err := a.credentials("register", args)
	if err != nil {
		return err
	}
	resp, err := a.api.Register(ctx, email, pass)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, resp.Token)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	email, pass, err := a.credentials("login", args)
	if err != nil {
		return err
	}
	resp, err := a.api.Login(ctx, email, pass)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, resp.Token)
	return nil
}

func (a *app) credentials(name string, args []string) (string, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *email == "" {
		return "", "", errors.New("-email is required")
	}

	fmt.Fprint(a.stderr, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return *email, strings.TrimRight(string(pw), "\r\n"), nil
}

func (a *app) me(ctx context.Context, _ []string) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	return a.print(u)
}

// ---------------------- RESULTS ----------------------

func (a *app) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	var req client.ResultRequest
	fs.IntVar(&req.Score, "score", -1, "score percentage 0-100")
	fs.IntVar(&req.Attempted, "attempted", -1, "questions attempted")
	fs.IntVar(&req.Correct, "correct", -1, "questions answered correctly")
	fs.IntVar(&req.TimeTaken, "time", -1, "time taken in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.Score < 0 || req.Attempted < 0 || req.Correct < 0 || req.TimeTaken < 0 {
		return errors.New("-score, -attempted, -correct and -time are required")
	}

	r, err := a.api.SubmitResult(ctx, req)
	if err != nil {
		return err
	}
	return a.print(r)
}

func (a *app) results(ctx context.Context, _ []string) error {
	rs, err := a.api.Results(ctx)
	if err != nil {
		return err
	}
	return a.print(rs)
}

// ---------------------- ADMIN ----------------------

func (a *app) adminUsers(ctx context.Context, _ []string) error {
	us, err := a.api.AdminUsers(ctx)
	if err != nil {
		return err
	}
	return a.print(us)
}

func (a *app) adminResults(ctx context.Context, _ []string) error {
	rs, err := a.api.AdminResults(ctx)
	if err != nil {
		return err
	}
	return a.print(rs)
}

func (a *app) adminDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: admin-delete USER_ID")
	}
	msg, err := a.api.DeleteUser(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}

func (a *app) adminUserResults(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: admin-user-results USER_ID")
	}
	u, rs, err := a.api.UserResults(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(map[string]any{"user": u, "results": rs})
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
