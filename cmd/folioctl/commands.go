package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/simp-lee/folio/internal/client"
	"github.com/simp-lee/folio/internal/interact"
)

// print writes v as JSON or YAML, or the given rows as a table.
func (e *env) print(v any, header []string, rows [][]string) error {
	switch e.cli.Output {
	case "json":
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// Round trip through JSON so YAML keys match the API field names.
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("folioctl: encode output: %w", err)
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("folioctl: encode output: %w", err)
		}
		enc := yaml.NewEncoder(e.out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	default:
		tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}
}

type loginCmd struct {
	Email    string `arg:"" help:"Administrator email."`
	Password string `env:"FOLIO_PASSWORD" help:"Password. Prompted for when empty."`
}

func (cmd *loginCmd) Run(e *env) error {
	password := cmd.Password
	if password == "" {
		fmt.Fprint(e.out, "Password: ")
		var line string
		if _, err := fmt.Fscanln(e.in, &line); err != nil {
			return fmt.Errorf("folioctl: read password: %w", err)
		}
		password = line
	}
	token, err := e.client.Login(e.ctx, cmd.Email, password)
	if err != nil {
		return err
	}
	if err := writeToken(e.cli.tokenPath(), token.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Logged in. Token expires %s.\n", humanize.Time(time.Unix(token.ExpiresAt, 0)))
	return nil
}

type hashPasswordCmd struct {
	Password string `arg:"" help:"Password to hash."`
	Cost     int    `default:"12" help:"bcrypt cost."`
}

func (cmd *hashPasswordCmd) Run(e *env) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), cmd.Cost)
	if err != nil {
		return fmt.Errorf("folioctl: hash password: %w", err)
	}
	fmt.Fprintln(e.out, string(hash))
	return nil
}

type uploadCmd struct {
	File string `arg:"" type:"existingfile" help:"Image to upload."`
}

func (cmd *uploadCmd) Run(e *env) error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("folioctl: open %s: %w", cmd.File, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("folioctl: stat %s: %w", cmd.File, err)
	}
	url, err := e.client.Upload(e.ctx, filepath.Base(cmd.File), f)
	if err != nil {
		return err
	}
	e.notify.Notify(e.ctx, fmt.Sprintf("Uploaded %s (%s)", filepath.Base(cmd.File), humanize.Bytes(uint64(info.Size()))))
	fmt.Fprintln(e.out, url)
	return nil
}

type likeCmd struct {
	Slug     string `arg:"" help:"Post slug."`
	Identity string `type:"path" help:"Visitor ID file (defaults to the user config dir)."`
}

func (cmd *likeCmd) Run(e *env) error {
	path := cmd.Identity
	if path == "" {
		p, err := interact.DefaultIdentityPath()
		if err != nil {
			return err
		}
		path = p
	}
	post, err := e.client.PostBySlug(e.ctx, cmd.Slug)
	if err != nil {
		return err
	}
	like := interact.NewLikeToggle(e.client, interact.NewIdentity(path), post.ID, post.LikesCount)
	state, err := like.Toggle(e.ctx)
	if err != nil {
		return err
	}
	verb := "Unliked"
	if state.Liked {
		verb = "Liked"
	}
	return e.print(state, []string{"POST", "STATE", "LIKES"},
		[][]string{{post.Title, verb, humanize.Comma(state.LikesCount)}})
}

type shareCmd struct {
	Slug     string `arg:"" help:"Post slug."`
	Platform string `help:"Print only this platform's link and count the share."`
}

func (cmd *shareCmd) Run(e *env) error {
	post, err := e.client.PostBySlug(e.ctx, cmd.Slug)
	if err != nil {
		return err
	}
	pageURL := strings.TrimRight(e.cli.Server, "/") + "/blog/" + post.Slug
	links := interact.ShareLinks(pageURL, post.Title, post.Excerpt)
	if cmd.Platform == "" {
		rows := make([][]string, 0, len(links))
		for _, l := range links {
			rows = append(rows, []string{string(l.Platform), l.URL})
		}
		return e.print(links, []string{"PLATFORM", "URL"}, rows)
	}
	for _, l := range links {
		if string(l.Platform) == cmd.Platform {
			fmt.Fprintln(e.out, interact.Share(e.ctx, e.client, post.ID, l))
			return nil
		}
	}
	return fmt.Errorf("folioctl: unknown platform %q", cmd.Platform)
}

type commentCmd struct {
	Slug    string `arg:"" help:"Post slug."`
	Name    string `required:"" help:"Your name."`
	Email   string `required:"" help:"Your email. It is never shown."`
	Website string `help:"Your website."`
	Text    string `arg:"" help:"Comment text."`
}

func (cmd *commentCmd) Run(e *env) error {
	post, err := e.client.PostBySlug(e.ctx, cmd.Slug)
	if err != nil {
		return err
	}
	form := interact.NewCommentForm(e.client, post.ID)
	in := client.CommentInput{Name: cmd.Name, Email: cmd.Email, Website: cmd.Website, Comment: cmd.Text}
	if err := form.Submit(e.ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "Thanks! Your comment will appear once it is approved.")
	return nil
}

type commentsCmd struct {
	Slug string `arg:"" help:"Post slug."`
}

func (cmd *commentsCmd) Run(e *env) error {
	post, err := e.client.PostBySlug(e.ctx, cmd.Slug)
	if err != nil {
		return err
	}
	comments, err := interact.NewCommentForm(e.client, post.ID).Visible(e.ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{c.Name, humanize.RelTime(c.CreatedAt, time.Now(), "ago", "from now"), c.Comment})
	}
	return e.print(comments, []string{"NAME", "WHEN", "COMMENT"}, rows)
}
