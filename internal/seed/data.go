package seed

import (
	"academy/internal/model"
)

// Account is a seeded user together with its plaintext demo password.
type Account struct {
	model.User
	Password string `json:"password"`
}

// Dataset is the full catalog and user list loaded into a fresh database.
type Dataset struct {
	Users     []Account        `json:"users"`
	Courses   []model.Course   `json:"courses"`
	Resources []model.Resource `json:"resources"`
}

// Default returns the built-in dataset. Each call returns fresh copies.
func Default() Dataset {
	return Dataset{
		Users:     Users(),
		Courses:   Courses(),
		Resources: Resources(),
	}
}

// Users returns the demo accounts.
func Users() []Account {
	return []Account{
		{
			User: model.User{
				ID:       "u1",
				Email:    "pablo@visualgrowth.info",
				FullName: "Pablo Admin",
				Role:     "Admin",
			},
			Password: "password123",
		},
		{
			User: model.User{
				ID:       "u2",
				Email:    "catherine@sustainable-luxury.com",
				FullName: "Catherine Sonolet",
				Role:     "Training Consultant",
			},
			Password: "luxury2024",
		},
	}
}

// Courses returns the course catalog.
func Courses() []model.Course {
	return []model.Course{
		{
			ID:          "sustainability-essentials",
			Title:       "Sustainability Essentials for Luxury Teams",
			Description: "Master the fundamentals of CSR and how to communicate it to luxury clients.",
			Thumbnail:   "https://images.unsplash.com/photo-1560472355-536de3962603?w=800&q=80",
			Modules: []model.Module{
				{
					ID:    "m1",
					Title: "Introduction to Luxury CSR",
					Lessons: []model.Lesson{
						{ID: "l1", Title: "Why Sustainability Matters", Duration: "15m"},
						{ID: "l2", Title: "Global Luxury Trends", Duration: "20m"},
					},
				},
				{
					ID:    "m2",
					Title: "Sustainable Materials",
					Lessons: []model.Lesson{
						{ID: "l3", Title: "Traceability in Raw Materials", Duration: "25m"},
						{ID: "l4", Title: "Innovative Alternatives", Duration: "30m"},
					},
				},
			},
		},
	}
}

// Resources returns the resource library.
func Resources() []model.Resource {
	return []model.Resource{
		{
			ID:          "brand-guide",
			Title:       "Sustainable Branding Guide 2024",
			Type:        "PDF",
			Category:    "Guides",
			Description: "A comprehensive guide on how to integrate sustainability into your brand narrative.",
			FileURL:     "/assets/pdf/branding-guide.pdf",
		},
		{
			ID:          "material-audit",
			Title:       "Material Audit Checklist",
			Type:        "Worksheet",
			Category:    "Tools",
			Description: "Use this checklist to audit your supply chain materials.",
			FileURL:     "/assets/pdf/audit-checklist.pdf",
		},
	}
}
