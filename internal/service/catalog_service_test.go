package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "academy/internal/errors"
	"academy/internal/model"
)

func sampleResources() []model.Resource {
	return []model.Resource{
		{ID: "material-audit", Title: "Material Audit Checklist", Type: "Worksheet", Category: "Tools", Description: "Use this checklist to audit your supply chain materials."},
		{ID: "brand-guide", Title: "Sustainable Branding Guide 2024", Type: "PDF", Category: "Guides", Description: "A comprehensive guide on how to integrate sustainability into your brand narrative."},
	}
}

func TestCatalogService_ListCoursesNeverNil(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("List", mock.Anything).Return([]model.Course(nil), nil)

	svc := NewCatalogService(courseRepo, new(MockResourceRepository), nil, 0)
	courses, err := svc.ListCourses(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
	courseRepo.AssertExpectations(t)
}

func TestCatalogService_GetCourse(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("FindByID", mock.Anything, "sustainability-essentials").Return(&model.Course{ID: "sustainability-essentials", Title: "Sustainability Essentials"}, nil)
	courseRepo.On("FindByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	svc := NewCatalogService(courseRepo, new(MockResourceRepository), nil, 0)

	course, err := svc.GetCourse(context.Background(), "sustainability-essentials")
	require.NoError(t, err)
	assert.Equal(t, "Sustainability Essentials", course.Title)
	assert.NotNil(t, course.Modules)

	_, err = svc.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	courseRepo.AssertExpectations(t)
}

func TestCatalogService_ListResources(t *testing.T) {
	tests := []struct {
		name     string
		filter   model.ResourceFilter
		expected []string
	}{
		{name: "no filter", filter: model.ResourceFilter{}, expected: []string{"material-audit", "brand-guide"}},
		{name: "all category", filter: model.ResourceFilter{Category: "all"}, expected: []string{"material-audit", "brand-guide"}},
		{name: "category", filter: model.ResourceFilter{Category: "Guides"}, expected: []string{"brand-guide"}},
		{name: "unknown category", filter: model.ResourceFilter{Category: "Videos"}, expected: []string{}},
		{name: "query matches title case-insensitively", filter: model.ResourceFilter{Query: "AUDIT"}, expected: []string{"material-audit"}},
		{name: "query matches description", filter: model.ResourceFilter{Query: "brand narrative"}, expected: []string{"brand-guide"}},
		{name: "category and query", filter: model.ResourceFilter{Category: "Tools", Query: "guide"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resourceRepo := new(MockResourceRepository)
			resourceRepo.On("List", mock.Anything).Return(sampleResources(), nil)

			svc := NewCatalogService(new(MockCourseRepository), resourceRepo, nil, 0)
			resources, err := svc.ListResources(context.Background(), tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(resources))
			for _, r := range resources {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expected, ids)
			resourceRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_InvalidateCacheWithoutRedis(t *testing.T) {
	svc := NewCatalogService(new(MockCourseRepository), new(MockResourceRepository), nil, 0)
	assert.NotPanics(t, func() {
		svc.InvalidateCache(context.Background(), "sustainability-essentials")
	})
}
