package app

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin/render"
)

// TemplateRenderer renders the public site pages. Every page under
// templates/<section>/ is compiled together with all layouts and partials, so
// pages only define the blocks they fill ("title", "content") and call
// {{ template "base" . }}.
//
// With reload set, the whole tree is parsed again for each render so template
// edits show up without a restart. Otherwise parsing happens once in
// NewTemplateRenderer and a broken template fails startup.
type TemplateRenderer struct {
	pages   map[string]*template.Template
	fs      fs.FS
	funcMap template.FuncMap
	reload  bool
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer reads templates from the templates/ directory of fsys:
// os.DirFS("web") while developing, web.EmbeddedFS in a release build.
func NewTemplateRenderer(fsys fs.FS, reload bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: templateFuncMap(),
		reload:  reload,
	}
	if reload {
		return r, nil
	}

	pages, err := r.parse()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.pages = pages
	return r, nil
}

// Instance implements render.HTMLRender. name is relative to templates/, for
// example "site/blog_post.html".
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	pages := r.pages
	if r.reload {
		var err error
		if pages, err = r.parse(); err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
	}
	return &HTMLInstance{Template: pages[name], Name: name, Data: data}
}

func (r *TemplateRenderer) parse() (map[string]*template.Template, error) {
	shared := template.New("").Funcs(r.funcMap)
	for _, dir := range []string{"layouts", "partials"} {
		files, err := fs.Glob(r.fs, "templates/"+dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		for _, f := range files {
			if err := parseFile(r.fs, shared.New(f), f); err != nil {
				return nil, err
			}
		}
	}

	files, err := r.pageFiles()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		page, err := shared.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", f, err)
		}
		name := strings.TrimPrefix(f, "templates/")
		if err := parseFile(r.fs, page.New(name), f); err != nil {
			return nil, err
		}
		pages[name] = page
	}
	return pages, nil
}

func parseFile(fsys fs.FS, t *template.Template, path string) error {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := t.Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// pageFiles lists every .html file outside layouts/ and partials/.
func (r *TemplateRenderer) pageFiles() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, "templates/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	return pages, err
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json embeds v in a script context.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"timeAgo": func(t time.Time) string {
			return humanize.Time(t)
		},
		// month turns a "2006-01" period bound into "Jan 2006". Anything else
		// is returned as is.
		"month": func(s string) string {
			t, err := time.Parse("2006-01", s)
			if err != nil {
				return s
			}
			return t.Format("Jan 2006")
		},
		"comma": func(n int64) string {
			return humanize.Comma(n)
		},
		// paragraphs splits plain text on blank lines.
		"paragraphs": func(s string) []string {
			var out []string
			for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"seq": func(start, end int) []int {
			if start > end {
				return nil
			}
			s := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				s = append(s, i)
			}
			return s
		},
	}
}

// HTMLInstance executes one page template.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error
}

const htmlContentType = "text/html; charset=utf-8"

func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
