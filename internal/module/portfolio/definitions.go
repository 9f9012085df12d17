// Package portfolio wires the portfolio collections: projects, education,
// experience, skills, gallery images, testimonials and visitor feedback.
package portfolio

import (
	"slices"
	"strings"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/module/collection"
)

var Projects = collection.Definition[domain.Project]{
	Name:          "projects",
	Singular:      "project",
	SortFields:    []string{"title"},
	FilterFields:  []string{"category", "featured"},
	SearchColumns: []string{"title", "description", "content"},
	Flags:         map[string]string{"featured": "featured", "visible": "visible"},
	PublicColumn:  "visible",
	Public:        func(p *domain.Project) bool { return p.Visible },
	Normalize: func(p *domain.Project) {
		trim(&p.Title, &p.Description, &p.Category, &p.ImageURL, &p.GithubURL, &p.LiveURL)
		p.Tags = cleanTags(p.Tags)
	},
}

var Education = collection.Definition[domain.Education]{
	Name:          "education",
	Singular:      "education entry",
	SortFields:    []string{"start_date", "institution"},
	SearchColumns: []string{"institution", "degree", "field_of_study"},
	Flags:         map[string]string{"visible": "visible"},
	PublicColumn:  "visible",
	Public:        func(e *domain.Education) bool { return e.Visible },
	Normalize: func(e *domain.Education) {
		trim(&e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.LogoURL)
	},
	Validate: func(e *domain.Education) error {
		return checkDateRange(e.StartDate, e.EndDate)
	},
}

var Experience = collection.Definition[domain.Experience]{
	Name:          "experience",
	Singular:      "experience entry",
	SortFields:    []string{"start_date", "company"},
	FilterFields:  []string{"current"},
	SearchColumns: []string{"company", "title", "location"},
	Flags:         map[string]string{"visible": "visible", "current": "current"},
	PublicColumn:  "visible",
	Public:        func(e *domain.Experience) bool { return e.Visible },
	Normalize: func(e *domain.Experience) {
		trim(&e.Company, &e.Title, &e.Location, &e.StartDate, &e.EndDate, &e.LogoURL)
		if e.Current {
			e.EndDate = ""
		}
		e.Technologies = cleanTags(e.Technologies)
	},
	Validate: func(e *domain.Experience) error {
		return checkDateRange(e.StartDate, e.EndDate)
	},
}

var Skills = collection.Definition[domain.Skill]{
	Name:          "skills",
	Singular:      "skill",
	SortFields:    []string{"name", "level", "category"},
	FilterFields:  []string{"category", "icon"},
	SearchColumns: []string{"name", "category"},
	Flags:         map[string]string{"visible": "visible"},
	PublicColumn:  "visible",
	Public:        func(s *domain.Skill) bool { return s.Visible },
	Normalize: func(s *domain.Skill) {
		trim(&s.Name, &s.Category)
		s.Icon = domain.Icon(strings.ToLower(strings.TrimSpace(string(s.Icon))))
	},
	Validate: func(s *domain.Skill) error {
		_, err := domain.ParseIcon(string(s.Icon))
		return err
	},
}

var Gallery = collection.Definition[domain.GalleryImage]{
	Name:          "gallery",
	Singular:      "gallery image",
	SortFields:    []string{"title"},
	FilterFields:  []string{"category"},
	SearchColumns: []string{"title", "description"},
	Flags:         map[string]string{"visible": "visible"},
	PublicColumn:  "visible",
	Public:        func(g *domain.GalleryImage) bool { return g.Visible },
	Normalize: func(g *domain.GalleryImage) {
		trim(&g.Title, &g.ImageURL, &g.Category)
	},
}

var Testimonials = collection.Definition[domain.Testimonial]{
	Name:          "testimonials",
	Singular:      "testimonial",
	SortFields:    []string{"name", "rating"},
	FilterFields:  []string{"featured", "rating"},
	SearchColumns: []string{"name", "company", "content"},
	Flags:         map[string]string{"approved": "approved", "featured": "featured"},
	PublicColumn:  "approved",
	Public:        func(t *domain.Testimonial) bool { return t.Approved },
	Normalize: func(t *domain.Testimonial) {
		trim(&t.Name, &t.Role, &t.Company, &t.Content, &t.AvatarURL)
	},
}

var Feedback = collection.Definition[domain.Feedback]{
	Name:          "feedback",
	Singular:      "feedback",
	SortFields:    []string{"rating", "name"},
	FilterFields:  []string{"rating", "approved"},
	SearchColumns: []string{"name", "message"},
	Flags:         map[string]string{"approved": "approved"},
	PublicColumn:  "approved",
	Public:        func(f *domain.Feedback) bool { return f.Approved },
	Normalize: func(f *domain.Feedback) {
		trim(&f.Name, &f.Email, &f.Message)
		f.Email = strings.ToLower(f.Email)
	},
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// cleanTags trims tags and drops blanks and case-insensitive duplicates,
// keeping the first spelling.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return slices.Clip(out)
}

// checkDateRange rejects an end month before the start month. Both are
// YYYY-MM, which orders lexically.
func checkDateRange(start, end string) error {
	if end != "" && end < start {
		return domain.NewValidationError(map[string]string{"endDate": "gtefield=StartDate"})
	}
	return nil
}
