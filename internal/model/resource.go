package model

import (
	"strings"
	"time"
)

// Resource is a downloadable document listed in the resource library.
type Resource struct {
	ID          string    `json:"id" gorm:"size:128;primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Type        string    `json:"type" gorm:"size:50"`
	Category    string    `json:"category" gorm:"size:100;index"`
	Description string    `json:"description" gorm:"type:text"`
	FileURL     string    `json:"fileUrl" gorm:"size:512"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ResourceFilter narrows the resource library. Zero value matches everything.
type ResourceFilter struct {
	Category string
	Query    string
}

// Matches reports whether r passes the filter. Category "all" disables the
// category check; Query matches title or description case-insensitively.
func (f ResourceFilter) Matches(r Resource) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, "all") && r.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

// FilterResources returns the resources matching f; never nil.
func FilterResources(resources []Resource, f ResourceFilter) []Resource {
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
