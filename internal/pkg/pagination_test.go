package pkg

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	dbtest "gorm.io/gorm/utils/tests"

	"github.com/simp-lee/folio/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(queryParams url.Values) *gin.Context {
	req := httptest.NewRequest(http.MethodGet, "/?"+queryParams.Encode(), nil)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

type scopeRow struct {
	ID    string
	Title string
}

// toSQL renders the query a scope produces without touching a database.
func toSQL(t *testing.T, scopes ...func(*gorm.DB) *gorm.DB) string {
	t.Helper()
	db, err := gorm.Open(dbtest.DummyDialector{}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open dummy db: %v", err)
	}
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&scopeRow{}).Scopes(scopes...).Find(&[]scopeRow{})
	})
}

func TestParsePageRequest_Defaults(t *testing.T) {
	pr := ParsePageRequest(newTestContext(url.Values{}))

	if pr.Page != 1 || pr.PageSize != defaultPageSize || pr.Sort != "sort_order:asc" {
		t.Errorf("defaults = %+v", pr)
	}
	if pr.From != nil || pr.To != nil || pr.Search != "" || len(pr.Filter) != 0 {
		t.Errorf("unexpected optional values: %+v", pr)
	}
}

func TestParsePageRequest_Values(t *testing.T) {
	pr := ParsePageRequest(newTestContext(url.Values{
		"page":     {"3"},
		"limit":    {"10"},
		"sort":     {"created_at:desc"},
		"search":   {"  golang "},
		"category": {"backend"},
		"empty":    {""},
		"from":     {"2025-01-01"},
		"to":       {"2025-01-31"},
	}))

	if pr.Page != 3 || pr.PageSize != 10 || pr.Sort != "created_at:desc" {
		t.Errorf("paging = %+v", pr)
	}
	if pr.Search != "golang" {
		t.Errorf("Search = %q", pr.Search)
	}
	if len(pr.Filter) != 1 || pr.Filter["category"] != "backend" {
		t.Errorf("Filter = %v, want only category", pr.Filter)
	}
	if pr.From == nil || !pr.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("From = %v", pr.From)
	}
	wantTo := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if pr.To == nil || !pr.To.Equal(wantTo) {
		t.Errorf("To = %v, want end of day %v", pr.To, wantTo)
	}
}

func TestParsePageRequest_Clamping(t *testing.T) {
	tests := []struct {
		name         string
		query        url.Values
		wantPage     int
		wantPageSize int
	}{
		{"page zero", url.Values{"page": {"0"}}, 1, defaultPageSize},
		{"negative limit", url.Values{"limit": {"-5"}}, 1, defaultPageSize},
		{"limit above max", url.Values{"limit": {"5000"}}, 1, maxPageSize},
		{"garbage", url.Values{"page": {"x"}, "limit": {"y"}}, 1, defaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := ParsePageRequest(newTestContext(tt.query))
			if pr.Page != tt.wantPage || pr.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want %d/%d", pr.Page, pr.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestParsePageRequest_InvalidDateIgnored(t *testing.T) {
	pr := ParsePageRequest(newTestContext(url.Values{"from": {"yesterday"}, "to": {"2025-13-40"}}))
	if pr.From != nil || pr.To != nil {
		t.Errorf("invalid dates should be ignored: %v %v", pr.From, pr.To)
	}
}

func TestSort(t *testing.T) {
	allowed := []string{"sort_order", "created_at", "title"}
	tests := []struct {
		name string
		sort string
		want string
	}{
		{"default", "sort_order:asc", "ORDER BY sort_order asc,created_at asc,id asc"},
		{"allowed field", "title:DESC", "ORDER BY title desc,created_at asc,id asc"},
		{"created_at has no duplicate tie-breaker", "created_at:desc", "ORDER BY created_at desc,id asc"},
		{"not allowed falls back", "password:asc", "ORDER BY sort_order asc,created_at asc,id asc"},
		{"malformed falls back", "title", "ORDER BY sort_order asc,created_at asc,id asc"},
		{"injection falls back", "title;DROP TABLE x--:asc", "ORDER BY sort_order asc,created_at asc,id asc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := toSQL(t, Sort(domain.PageRequest{Sort: tt.sort}, allowed))
			if !strings.Contains(sql, tt.want) {
				t.Errorf("sql = %q, want contains %q", sql, tt.want)
			}
		})
	}
}

func TestSort_FallbackIsFirstAllowedField(t *testing.T) {
	sql := toSQL(t, Sort(domain.PageRequest{Sort: "bogus:asc"}, []string{"created_at", "name"}))
	if !strings.Contains(sql, "ORDER BY created_at asc,id asc") {
		t.Errorf("sql = %q", sql)
	}
}

func TestFilter(t *testing.T) {
	allowed := []string{"category", "title", "featured"}
	tests := []struct {
		name    string
		filter  map[string]string
		want    string
		notWant string
	}{
		{"exact", map[string]string{"category": "web"}, "category = \"web\"", ""},
		{"like", map[string]string{"title__like": "go"}, "title LIKE \"%go%\"", ""},
		{"boolean", map[string]string{"featured": "true"}, "featured = true", ""},
		{"not allowed", map[string]string{"password": "x"}, "", "password"},
		{"invalid name", map[string]string{"title;--": "x"}, "", "title;--"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := toSQL(t, Filter(domain.PageRequest{Filter: tt.filter}, allowed))
			if tt.want != "" && !strings.Contains(sql, tt.want) {
				t.Errorf("sql = %q, want contains %q", sql, tt.want)
			}
			if tt.notWant != "" && strings.Contains(sql, tt.notWant) {
				t.Errorf("sql = %q, must not contain %q", sql, tt.notWant)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	sql := toSQL(t, Search(domain.PageRequest{Search: "GoLang"}, []string{"title", "bad col"}))
	if !strings.Contains(sql, "(LOWER(title) LIKE \"%golang%\")") {
		t.Errorf("sql = %q", sql)
	}

	if sql := toSQL(t, Search(domain.PageRequest{}, []string{"title"})); strings.Contains(sql, "WHERE") {
		t.Errorf("empty search should not filter: %q", sql)
	}
}

func TestDateRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sql := toSQL(t, DateRange(domain.PageRequest{From: &from}, "created_at"))
	if !strings.Contains(sql, "created_at >=") || strings.Contains(sql, "created_at <=") {
		t.Errorf("sql = %q", sql)
	}
}

func TestPaginate(t *testing.T) {
	sql := toSQL(t, Paginate(domain.PageRequest{Page: 3, PageSize: 10}))
	if !strings.Contains(sql, "LIMIT 10 OFFSET 20") {
		t.Errorf("sql = %q", sql)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int
	}{
		{"exact", 100, 10, 10},
		{"remainder", 101, 10, 11},
		{"empty", 0, 10, 0},
		{"zero page size", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewPageResult[string](nil, tt.total, domain.PageRequest{Page: 1, PageSize: tt.pageSize})
			if res.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.Items == nil {
				t.Error("nil items must become an empty slice")
			}
		})
	}
}
