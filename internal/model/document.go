package model

import "time"

// Document is one record in a named collection, stored as a flat JSON
// object plus store-managed timestamps. All five portfolio entity types
// share this shape; the Collection descriptor tells the generic service
// how to validate and order each one.
type Document struct {
	ID         string
	Collection string
	Data       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SortOrder describes one ORDER BY term on a field inside Document.Data.
// Fields come from Collection descriptors, never from request input.
type SortOrder struct {
	Field   string
	Desc    bool
	Numeric bool
}

// Collection describes one portfolio entity type: its route segment,
// required fields, optional boolean list filter, field defaults, and
// list ordering.
type Collection struct {
	Name            string
	Singular        string
	Required        []string
	RequiredMessage string
	FilterField     string
	Defaults        func() map[string]any
	Sort            []SortOrder
}

// Collections returns the descriptors for all five portfolio entity types.
// Required fields, defaults and sort orders mirror what the public site
// expects.
func Collections() []Collection {
	return []Collection{
		{
			Name:            "blogs",
			Singular:        "Blog",
			Required:        []string{"title", "description", "content"},
			RequiredMessage: "Title, description, and content are required",
			FilterField:     "published",
			Defaults: func() map[string]any {
				return map[string]any{
					"date":      time.Now().UTC().Format(time.RFC3339),
					"readTime":  "5 min read",
					"tags":      []any{},
					"published": true,
				}
			},
			Sort: []SortOrder{{Field: "date", Desc: true}},
		},
		{
			Name:            "projects",
			Singular:        "Project",
			Required:        []string{"title", "description", "image", "liveLink", "year", "techStack"},
			RequiredMessage: "Title, description, image, live link, year, and tech stack are required",
			FilterField:     "featured",
			Defaults: func() map[string]any {
				return map[string]any{
					"challenges":   []any{},
					"improvements": []any{},
					"featured":     false,
					"order":        0,
				}
			},
			Sort: []SortOrder{
				{Field: "order", Numeric: true},
				{Field: "year", Desc: true},
			},
		},
		{
			Name:            "education",
			Singular:        "Education entry",
			Required:        []string{"degree", "institution", "year"},
			RequiredMessage: "Degree, institution, and year are required",
			Defaults: func() map[string]any {
				return map[string]any{"order": 0}
			},
			Sort: []SortOrder{{Field: "order", Numeric: true}},
		},
		{
			Name:            "experience",
			Singular:        "Experience entry",
			Required:        []string{"position", "company", "year"},
			RequiredMessage: "Position, company, and year are required",
			Defaults: func() map[string]any {
				return map[string]any{"order": 0}
			},
			Sort: []SortOrder{{Field: "order", Numeric: true}},
		},
		{
			Name:            "extracurricular",
			Singular:        "Extracurricular activity",
			Required:        []string{"role", "organization", "year"},
			RequiredMessage: "Role, organization, and year are required",
			Defaults: func() map[string]any {
				return map[string]any{"order": 0}
			},
			Sort: []SortOrder{{Field: "order", Numeric: true}},
		},
	}
}
