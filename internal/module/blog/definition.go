// Package blog serves blog posts with slugs, reader likes, shares, view
// counts and moderated comments.
package blog

import (
	"strings"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/module/collection"
)

// Posts is the post collection. Publication state changes only through the
// "published" flag, and counters are never written by an update.
var Posts = collection.Definition[domain.BlogPost]{
	Name:          "posts",
	Singular:      "post",
	SortFields:    []string{"title", "published_at", "views", "likes_count"},
	FilterFields:  []string{"category", "featured", "slug"},
	SearchColumns: []string{"title", "excerpt", "content"},
	Flags:         map[string]string{"published": "published", "featured": "featured"},
	ReadOnly:      []string{"published", "published_at", "views", "likes_count", "shares_count"},
	PublicColumn:  "published",
	Public:        func(p *domain.BlogPost) bool { return p.Published },
	Normalize: func(p *domain.BlogPost) {
		p.Title = strings.TrimSpace(p.Title)
		p.Excerpt = strings.TrimSpace(p.Excerpt)
		p.Category = strings.TrimSpace(p.Category)
		p.CoverImageURL = strings.TrimSpace(p.CoverImageURL)
		tags := p.Tags[:0]
		for _, t := range p.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		p.Tags = tags
	},
}
