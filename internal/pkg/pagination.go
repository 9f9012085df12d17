package pkg

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 200
	defaultSort     = "sort_order:asc"
)

// reservedParams lists query parameter names that are not column filters.
var reservedParams = map[string]bool{
	"page":   true,
	"limit":  true,
	"sort":   true,
	"search": true,
	"from":   true,
	"to":     true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParsePageRequest extracts pagination, sorting, search, date range and
// filters from the query string. Dates accept RFC 3339 or YYYY-MM-DD; an
// unparsable date is ignored. A date-only "to" covers the whole day.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	req := domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     c.DefaultQuery("sort", defaultSort),
		Search:   strings.TrimSpace(c.Query("search")),
		Filter:   filter,
	}
	if t, _, ok := parseDate(c.Query("from")); ok {
		req.From = &t
	}
	if t, dateOnly, ok := parseDate(c.Query("to")); ok {
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		req.To = &t
	}
	return req
}

func parseDate(s string) (t time.Time, dateOnly bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the page request.
func Paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (req.Page - 1) * req.PageSize
		return db.Offset(offset).Limit(req.PageSize)
	}
}

// Sort returns a GORM scope that applies ORDER BY based on the page request.
// Only field names present in the allowed list are accepted; anything else
// falls back to the first allowed field ascending (sort_order when the list
// is empty). created_at and id are always appended so the result is a strict
// total order.
func Sort(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field, direction := "sort_order", "asc"
		if len(allowed) > 0 {
			field = allowed[0]
		}
		if f, d, ok := strings.Cut(req.Sort, ":"); ok {
			f = strings.TrimSpace(f)
			d = strings.ToLower(strings.TrimSpace(d))
			if (d == "asc" || d == "desc") && validFieldName.MatchString(f) && isAllowed(f, allowed) {
				field, direction = f, d
			}
		}

		db = db.Order(field + " " + direction)
		if field != "created_at" {
			db = db.Order("created_at asc")
		}
		if field != "id" {
			db = db.Order("id asc")
		}
		return db
	}
}

// Filter returns a GORM scope that applies WHERE conditions based on the page request filters.
// Only filter keys present in the allowed list are applied; others are silently ignored.
// Keys ending with "__like" produce a LIKE '%value%' condition; others use exact
// match, with the literals "true" and "false" compared as booleans.
func Filter(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range req.Filter {
			field, like := strings.CutSuffix(key, "__like")
			if !validFieldName.MatchString(field) || !isAllowed(field, allowed) {
				continue
			}
			switch {
			case like:
				db = db.Where(field+" LIKE ?", "%"+value+"%")
			case value == "true" || value == "false":
				db = db.Where(field+" = ?", value == "true")
			default:
				db = db.Where(field+" = ?", value)
			}
		}
		return db
	}
}

// Search returns a GORM scope matching req.Search case-insensitively against
// any of the given columns.
func Search(req domain.PageRequest, columns []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if req.Search == "" || len(columns) == 0 {
			return db
		}
		term := "%" + strings.ToLower(req.Search) + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			if !validFieldName.MatchString(col) {
				continue
			}
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, term)
		}
		if len(clauses) == 0 {
			return db
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// DateRange returns a GORM scope restricting column to [req.From, req.To].
func DateRange(req domain.PageRequest, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !validFieldName.MatchString(column) {
			return db
		}
		if req.From != nil {
			db = db.Where(column+" >= ?", *req.From)
		}
		if req.To != nil {
			db = db.Where(column+" <= ?", *req.To)
		}
		return db
	}
}

// NewPageResult wraps one page of items in a pagination.Pagination with
// computed TotalPages.
func NewPageResult[T any](items []T, total int64, req domain.PageRequest) *pagination.Pagination[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}

	if items == nil {
		items = []T{}
	}

	return &pagination.Pagination[T]{
		Items:        items,
		TotalItems:   total,
		CurrentPage:  req.Page,
		ItemsPerPage: req.PageSize,
		TotalPages:   totalPages,
	}
}

// isAllowed checks if a field name is in the allowed list.
func isAllowed(field string, allowed []string) bool {
	return slices.Contains(allowed, field)
}
