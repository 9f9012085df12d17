package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/simp-lee/folio/internal/client"
	"github.com/simp-lee/folio/internal/dialog"
	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/orderable"
)

// collection is what the commands need from one typed collection.
type collection interface {
	list(e *env, q client.ListQuery) error
	move(e *env, from, to int) error
	remove(e *env, id string, confirm func(prompt string) bool) error
	setFlag(e *env, id, flag string, value bool) error
	setImage(e *env, id, path string) error
}

// kind binds a collection name to its entity type.
type kind[T domain.Ordered, P orderable.Positioned[T]] struct {
	name  string
	label func(T) string
	// image is the field set-image writes. nil means the type has no image.
	image func(*T) *string
}

func collections() map[string]func() collection {
	return map[string]func() collection{
		"projects": func() collection {
			return kind[domain.Project, *domain.Project]{"projects", func(p domain.Project) string { return p.Title },
				func(p *domain.Project) *string { return &p.ImageURL }}
		},
		"education": func() collection {
			return kind[domain.Education, *domain.Education]{"education", func(e domain.Education) string { return e.Degree + ", " + e.Institution },
				func(e *domain.Education) *string { return &e.LogoURL }}
		},
		"experience": func() collection {
			return kind[domain.Experience, *domain.Experience]{"experience", func(e domain.Experience) string { return e.Title + " at " + e.Company },
				func(e *domain.Experience) *string { return &e.LogoURL }}
		},
		"skills": func() collection {
			return kind[domain.Skill, *domain.Skill]{"skills", func(s domain.Skill) string { return s.Name }, nil}
		},
		"gallery": func() collection {
			return kind[domain.GalleryImage, *domain.GalleryImage]{"gallery", func(g domain.GalleryImage) string { return g.Title },
				func(g *domain.GalleryImage) *string { return &g.ImageURL }}
		},
		"testimonials": func() collection {
			return kind[domain.Testimonial, *domain.Testimonial]{"testimonials", func(t domain.Testimonial) string { return t.Name },
				func(t *domain.Testimonial) *string { return &t.AvatarURL }}
		},
		"feedback": func() collection {
			return kind[domain.Feedback, *domain.Feedback]{"feedback", func(f domain.Feedback) string { return f.Name }, nil}
		},
		"posts": func() collection {
			return kind[domain.BlogPost, *domain.BlogPost]{"posts", func(p domain.BlogPost) string { return p.Title },
				func(p *domain.BlogPost) *string { return &p.CoverImageURL }}
		},
	}
}

func collectionNames() []string {
	names := make([]string, 0)
	for name := range collections() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func lookup(name string) (collection, error) {
	mk, ok := collections()[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("folioctl: unknown collection %q (one of %s)", name, strings.Join(collectionNames(), ", "))
	}
	return mk(), nil
}

func (k kind[T, P]) remote(e *env) *client.Collection[T] {
	return client.NewCollection[T](e.client, k.name)
}

func (k kind[T, P]) load(e *env) ([]T, error) {
	view := orderable.NewView[T](k.remote(e).All)
	if err := view.Load(e.ctx); err != nil {
		return nil, fmt.Errorf("folioctl: load %s: %w", k.name, err)
	}
	return view.Items(), nil
}

func (k kind[T, P]) rows(items []T) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{strconv.Itoa(i), item.GetID(), k.label(item)})
	}
	return rows
}

func (k kind[T, P]) list(e *env, q client.ListQuery) error {
	if q.Sort == "" && q.Search == "" && len(q.Filter) == 0 {
		items, err := k.load(e)
		if err != nil {
			return err
		}
		return e.print(items, []string{"#", "ID", "TITLE"}, k.rows(items))
	}
	res, err := k.remote(e).List(e.ctx, q)
	if err != nil {
		return err
	}
	return e.print(res, []string{"#", "ID", "TITLE"}, k.rows(res.Items))
}

func (k kind[T, P]) move(e *env, from, to int) error {
	items, err := k.load(e)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(items) {
		return fmt.Errorf("folioctl: position %d is out of range (0..%d)", from, len(items)-1)
	}
	c := orderable.NewCommitter[T, P](k.remote(e), e.notify, items)
	defer c.Close()
	if err := c.Reorder(e.ctx, from, to); err != nil {
		return err
	}
	confirmed := c.Confirmed()
	return e.print(confirmed, []string{"#", "ID", "TITLE"}, k.rows(confirmed))
}

func (k kind[T, P]) find(e *env, id string) (T, []T, error) {
	var zero T
	items, err := k.load(e)
	if err != nil {
		return zero, nil, err
	}
	i := slices.IndexFunc(items, func(item T) bool { return item.GetID() == id })
	if i < 0 {
		return zero, nil, domain.NewAppError(domain.CodeNotFound, k.name+" "+id+" not found", nil)
	}
	return items[i], items, nil
}

func (k kind[T, P]) remove(e *env, id string, confirm func(string) bool) error {
	target, items, err := k.find(e, id)
	if err != nil {
		return err
	}
	gate := dialog.NewDeleteGate[T](k.remote(e), e.notify, k.label)
	gate.Request(target)
	if !confirm(gate.Prompt()) {
		gate.Cancel()
		fmt.Fprintln(e.out, "Cancelled.")
		return nil
	}
	rest, err := gate.Confirm(e.ctx, items)
	if err != nil {
		return err
	}
	return e.print(rest, []string{"#", "ID", "TITLE"}, k.rows(rest))
}

func (k kind[T, P]) setFlag(e *env, id, flag string, value bool) error {
	updated, err := k.remote(e).SetFlag(e.ctx, id, flag, value)
	if err != nil {
		return err
	}
	return e.print(updated, []string{"ID", "TITLE"}, [][]string{{(*updated).GetID(), k.label(*updated)}})
}

func (k kind[T, P]) setImage(e *env, id, path string) error {
	if k.image == nil {
		return fmt.Errorf("folioctl: %s have no image field", k.name)
	}
	target, _, err := k.find(e, id)
	if err != nil {
		return err
	}
	remote := k.remote(e)
	form := dialog.NewForm[T](dialog.Config[T]{Store: remote, Uploader: e.client, Notifier: e.notify})
	file := form.AddFile("image", k.image)
	form.Open(&target)
	if err := file.Select(path); err != nil {
		return err
	}
	saved, err := form.Submit(e.ctx)
	if err != nil {
		if fields := form.Errors(); len(fields) > 0 {
			return fmt.Errorf("folioctl: %w: %v", err, fields)
		}
		return err
	}
	fmt.Fprintln(e.out, *k.image(saved))
	return nil
}

type listCmd struct {
	Collection string   `arg:"" help:"Collection name (projects, education, experience, skills, gallery, testimonials, feedback, posts)."`
	Search     string   `help:"Full text search."`
	Sort       string   `help:"Sort as field:asc or field:desc."`
	Filter     []string `help:"Column filter as key=value (repeatable)."`
	Page       int      `default:"1" help:"Page number when searching or filtering."`
	Limit      int      `default:"50" help:"Page size when searching or filtering."`
}

func (cmd *listCmd) Run(e *env) error {
	col, err := lookup(cmd.Collection)
	if err != nil {
		return err
	}
	q := client.ListQuery{Page: cmd.Page, Limit: cmd.Limit, Sort: cmd.Sort, Search: cmd.Search}
	for _, f := range cmd.Filter {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("folioctl: filter %q must be key=value", f)
		}
		if q.Filter == nil {
			q.Filter = map[string]string{}
		}
		q.Filter[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return col.list(e, q)
}

type moveCmd struct {
	Collection string `arg:"" help:"Collection name."`
	From       int    `arg:"" help:"Current position (0-based)."`
	To         int    `arg:"" help:"New position (0-based, clamped)."`
}

func (cmd *moveCmd) Run(e *env) error {
	col, err := lookup(cmd.Collection)
	if err != nil {
		return err
	}
	return col.move(e, cmd.From, cmd.To)
}

type deleteCmd struct {
	Collection string `arg:"" help:"Collection name."`
	ID         string `arg:"" help:"Item ID."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *deleteCmd) Run(e *env) error {
	col, err := lookup(cmd.Collection)
	if err != nil {
		return err
	}
	return col.remove(e, cmd.ID, func(prompt string) bool {
		if cmd.Yes {
			return true
		}
		return ask(e.in, e.out, prompt+" [y/N] ")
	})
}

// ask reads one line from in and reports whether it starts with y.
func ask(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

type setFlagCmd struct {
	Collection string `arg:"" help:"Collection name."`
	ID         string `arg:"" help:"Item ID."`
	Flag       string `arg:"" help:"Flag name (featured, visible, approved, published, ...)."`
	Value      bool   `arg:"" help:"true or false."`
}

func (cmd *setFlagCmd) Run(e *env) error {
	col, err := lookup(cmd.Collection)
	if err != nil {
		return err
	}
	return col.setFlag(e, cmd.ID, cmd.Flag, cmd.Value)
}

type setImageCmd struct {
	Collection string `arg:"" help:"Collection name."`
	ID         string `arg:"" help:"Item ID."`
	File       string `arg:"" type:"existingfile" help:"Image to upload."`
}

func (cmd *setImageCmd) Run(e *env) error {
	col, err := lookup(cmd.Collection)
	if err != nil {
		return err
	}
	return col.setImage(e, cmd.ID, cmd.File)
}
