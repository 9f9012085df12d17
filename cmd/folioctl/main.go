// Command folioctl manages a folio site from the terminal: it logs the admin
// in, lists and reorders collections, uploads images and interacts with posts
// as an anonymous reader.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/simp-lee/folio/internal/client"
	"github.com/simp-lee/folio/internal/toast"
)

type cli struct {
	Server    string `default:"http://127.0.0.1:8080" env:"FOLIO_SERVER" help:"Base URL of the folio server."`
	Token     string `env:"FOLIO_TOKEN" help:"Admin bearer token. Defaults to the one saved by login."`
	TokenFile string `type:"path" help:"Where login stores the token (defaults to the user config dir)."`
	Output    string `short:"o" default:"table" enum:"table,yaml,json" help:"Output format (table, yaml, json)."`
	Verbose   bool   `short:"v" help:"Log requests and failures to stderr."`

	Login        loginCmd        `cmd:"" help:"Log in as the administrator and save the token."`
	HashPassword hashPasswordCmd `cmd:"" name:"hash-password" help:"Print a bcrypt hash for auth.admin.password_hash."`

	List     listCmd     `cmd:"" help:"List a collection in display order."`
	Move     moveCmd     `cmd:"" help:"Move an item to a new position and save the order."`
	Delete   deleteCmd   `cmd:"" help:"Delete an item after confirmation."`
	SetFlag  setFlagCmd  `cmd:"" name:"set-flag" help:"Set a boolean flag such as featured or visible."`
	Upload   uploadCmd   `cmd:"" help:"Upload an image and print its URL."`
	SetImage setImageCmd `cmd:"" name:"set-image" help:"Upload an image and attach it to an item."`

	Like     likeCmd     `cmd:"" help:"Toggle your like on a post."`
	Share    shareCmd    `cmd:"" help:"Print share links for a post."`
	Comment  commentCmd  `cmd:"" help:"Comment on a post."`
	Comments commentsCmd `cmd:"" help:"Show the approved comments of a post."`
}

// env is what every command receives.
type env struct {
	ctx    context.Context
	cli    *cli
	client *client.Client
	out    io.Writer
	in     io.Reader
	notify toast.Notifier
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("folioctl"),
		kong.Description("Command line administration for a folio portfolio site."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	e, err := newEnv(context.Background(), &c, os.Stdout, os.Stdin)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(e))
}

func newEnv(ctx context.Context, c *cli, out io.Writer, in io.Reader) (*env, error) {
	token := c.Token
	if token == "" {
		saved, err := readToken(c.tokenPath())
		if err != nil {
			return nil, err
		}
		token = saved
	}
	cl, err := client.New(client.Config{BaseURL: c.Server, Token: token})
	if err != nil {
		return nil, err
	}
	return &env{
		ctx:    ctx,
		cli:    c,
		client: cl,
		out:    out,
		in:     in,
		notify: toast.Func(func(_ context.Context, msg string) {
			fmt.Fprintln(os.Stderr, msg)
		}),
	}, nil
}

func (c *cli) tokenPath() string {
	if c.TokenFile != "" {
		return c.TokenFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".folio-token"
	}
	return filepath.Join(dir, "folio", "token")
}

func readToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("folioctl: read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("folioctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("folioctl: write token: %w", err)
	}
	return nil
}
