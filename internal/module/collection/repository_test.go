package collection

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/domain"
)

var projectDef = Definition[domain.Project]{
	Name:          "projects",
	Singular:      "project",
	SortFields:    []string{"title"},
	FilterFields:  []string{"category", "featured"},
	SearchColumns: []string{"title", "description"},
	Flags:         map[string]string{"featured": "featured", "visible": "visible"},
	PublicColumn:  "visible",
	Public:        func(p *domain.Project) bool { return p.Visible },
	Normalize: func(p *domain.Project) {
		p.Title = strings.TrimSpace(p.Title)
	},
}

// setupTestDB opens a private in-memory SQLite database for the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&domain.Project{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newProjectRepo(t *testing.T) (domain.CollectionRepository[domain.Project], *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewRepository[domain.Project](db, projectDef), db
}

func seedProjects(t *testing.T, repo domain.CollectionRepository[domain.Project], titles ...string) []domain.Project {
	t.Helper()
	out := make([]domain.Project, 0, len(titles))
	for _, title := range titles {
		p := &domain.Project{Title: title, Description: title + " description", Visible: true}
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
		out = append(out, *p)
	}
	return out
}

func orderedTitles(t *testing.T, repo domain.CollectionRepository[domain.Project]) []string {
	t.Helper()
	res, err := repo.List(context.Background(), domain.PageRequest{Page: 1, PageSize: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	titles := make([]string, len(res.Items))
	for i, p := range res.Items {
		titles[i] = p.Title
	}
	return titles
}

func TestRepository_CreateAssignsIDAndAppendsOrder(t *testing.T) {
	repo, _ := newProjectRepo(t)
	ctx := context.Background()

	p := &domain.Project{Title: "one", Description: "d"}
	p.ID = "client-chosen"
	p.Order = 42
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || p.ID == "client-chosen" {
		t.Errorf("ID = %q, want server assigned UUID", p.ID)
	}
	if p.Order != 0 {
		t.Errorf("first Order = %d, want 0", p.Order)
	}

	seeded := seedProjects(t, repo, "two", "three")
	if seeded[0].Order != 1 || seeded[1].Order != 2 {
		t.Errorf("orders = %d,%d, want 1,2", seeded[0].Order, seeded[1].Order)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := newProjectRepo(t)
	if _, err := repo.GetByID(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRepository_ListDisplayOrder(t *testing.T) {
	repo, db := newProjectRepo(t)
	seeded := seedProjects(t, repo, "a", "b", "c")

	// Equal orders fall back to creation time.
	db.Model(&domain.Project{}).Where("id = ?", seeded[2].ID).UpdateColumn("sort_order", 0)
	db.Model(&domain.Project{}).Where("id = ?", seeded[0].ID).UpdateColumn("created_at", time.Now().Add(time.Hour))

	got := strings.Join(orderedTitles(t, repo), ",")
	if got != "c,a,b" {
		t.Errorf("order = %s, want c,a,b", got)
	}
}

func TestRepository_ListFilters(t *testing.T) {
	repo, db := newProjectRepo(t)
	ctx := context.Background()
	seeded := seedProjects(t, repo, "Go service", "React app", "Go CLI")
	db.Model(&domain.Project{}).Where("id = ?", seeded[1].ID).UpdateColumn("visible", false)
	db.Model(&domain.Project{}).Where("id = ?", seeded[2].ID).UpdateColumn("category", "tools")

	tests := []struct {
		name string
		req  domain.PageRequest
		want int64
	}{
		{"all", domain.PageRequest{}, 3},
		{"visible only", domain.PageRequest{VisibleOnly: true}, 2},
		{"search", domain.PageRequest{Search: "go"}, 2},
		{"category", domain.PageRequest{Filter: map[string]string{"category": "tools"}}, 1},
		{"unknown filter ignored", domain.PageRequest{Filter: map[string]string{"secret": "x"}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Page, tt.req.PageSize = 1, 2
			res, err := repo.List(ctx, tt.req)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if res.TotalItems != tt.want {
				t.Errorf("Total = %d, want %d", res.TotalItems, tt.want)
			}
			if len(res.Items) > 2 {
				t.Errorf("page size not applied: %d items", len(res.Items))
			}
		})
	}
}

func TestRepository_UpdatePreservesIdentityAndOrder(t *testing.T) {
	repo, _ := newProjectRepo(t)
	ctx := context.Background()
	seeded := seedProjects(t, repo, "a", "b")
	orig := seeded[1]

	upd := &domain.Project{Title: "b2", Description: "new", Featured: true}
	upd.ID = orig.ID
	upd.Order = 99
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, orig.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "b2" || !got.Featured || got.Visible {
		t.Errorf("payload not replaced: %+v", got)
	}
	if got.Order != orig.Order {
		t.Errorf("Order = %d, want %d", got.Order, orig.Order)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", orig.CreatedAt, got.CreatedAt)
	}

	missing := &domain.Project{Title: "x", Description: "y"}
	missing.ID = "missing"
	if err := repo.Update(ctx, missing); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRepository_SetFlag(t *testing.T) {
	repo, _ := newProjectRepo(t)
	ctx := context.Background()
	p := seedProjects(t, repo, "a")[0]

	if err := repo.SetFlag(ctx, p.ID, "featured", true); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}
	got, _ := repo.GetByID(ctx, p.ID)
	if !got.Featured {
		t.Error("featured not set")
	}

	err := repo.SetFlag(ctx, p.ID, "title", true)
	if !domain.IsValidation(err) {
		t.Fatalf("unknown flag: expected validation error, got %v", err)
	}
	if err := repo.SetFlag(ctx, "missing", "visible", true); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := newProjectRepo(t)
	ctx := context.Background()
	p := seedProjects(t, repo, "a")[0]

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !domain.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestRepository_Reorder(t *testing.T) {
	repo, _ := newProjectRepo(t)
	ctx := context.Background()
	s := seedProjects(t, repo, "1", "2", "3")

	ids := []string{s[2].ID, s[0].ID, s[1].ID}
	if err := repo.Reorder(ctx, ids); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if got := strings.Join(orderedTitles(t, repo), ","); got != "3,1,2" {
		t.Errorf("order = %s, want 3,1,2", got)
	}
	for i, id := range ids {
		p, _ := repo.GetByID(ctx, id)
		if p.Order != i {
			t.Errorf("%s order = %d, want %d", p.Title, p.Order, i)
		}
		if !p.UpdatedAt.Equal(findByID(s, id).UpdatedAt) {
			t.Errorf("%s updated_at touched by reorder", p.Title)
		}
	}

	// Applying the same order again changes nothing.
	if err := repo.Reorder(ctx, ids); err != nil {
		t.Fatalf("second Reorder: %v", err)
	}
	if got := strings.Join(orderedTitles(t, repo), ","); got != "3,1,2" {
		t.Errorf("order after repeat = %s", got)
	}
}

func TestRepository_ReorderRejectsNonPermutation(t *testing.T) {
	repo, _ := newProjectRepo(t)
	s := seedProjects(t, repo, "1", "2", "3")

	tests := []struct {
		name string
		ids  []string
	}{
		{"missing", []string{s[0].ID, s[1].ID}},
		{"duplicate", []string{s[0].ID, s[0].ID, s[1].ID}},
		{"unknown", []string{s[0].ID, s[1].ID, "ghost"}},
		{"extra", []string{s[0].ID, s[1].ID, s[2].ID, "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Reorder(context.Background(), tt.ids)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if got := strings.Join(orderedTitles(t, repo), ","); got != "1,2,3" {
				t.Errorf("order changed to %s", got)
			}
		})
	}
}

func TestIsPermutation(t *testing.T) {
	tests := []struct {
		ids, existing []string
		want          bool
	}{
		{nil, nil, true},
		{[]string{"a", "b"}, []string{"b", "a"}, true},
		{[]string{"a", "a"}, []string{"a", "b"}, false},
		{[]string{"a"}, []string{"a", "b"}, false},
		{[]string{"a", "c"}, []string{"a", "b"}, false},
	}
	for _, tt := range tests {
		if got := isPermutation(tt.ids, tt.existing); got != tt.want {
			t.Errorf("isPermutation(%v, %v) = %v, want %v", tt.ids, tt.existing, got, tt.want)
		}
	}
}

func findByID(items []domain.Project, id string) domain.Project {
	for _, p := range items {
		if p.ID == id {
			return p
		}
	}
	return domain.Project{}
}
