package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"academy/internal/cache"
	apperrors "academy/internal/errors"
	"academy/internal/model"
	"academy/internal/repository"
)

// DefaultCatalogCacheTTL applies when no TTL is configured.
const DefaultCatalogCacheTTL = 5 * time.Minute

const (
	coursesCacheKey   = "courses"
	resourcesCacheKey = "resources"
)

// CatalogService exposes read access to courses and resources.
type CatalogService interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	ListResources(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, error)
	InvalidateCache(ctx context.Context, courseIDs ...string)
}

type catalogService struct {
	courseRepo   repository.CourseRepository
	resourceRepo repository.ResourceRepository
	cache        *cache.Client
	ttl          time.Duration
}

// NewCatalogService creates a new catalog service backed by the fail-safe cache.
func NewCatalogService(courseRepo repository.CourseRepository, resourceRepo repository.ResourceRepository, cache *cache.Client, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}
	return &catalogService{
		courseRepo:   courseRepo,
		resourceRepo: resourceRepo,
		cache:        cache,
		ttl:          ttl,
	}
}

func courseCacheKey(id string) string {
	return fmt.Sprintf("course:%s", id)
}

// ListCourses returns every course; never nil.
func (s *catalogService) ListCourses(ctx context.Context) ([]model.Course, error) {
	var cached []model.Course
	if s.cache.GetJSON(ctx, coursesCacheKey, &cached) && cached != nil {
		return normalizeCourses(cached), nil
	}

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courses = normalizeCourses(courses)

	s.cache.SetJSON(ctx, coursesCacheKey, courses, s.ttl)
	return courses, nil
}

// GetCourse retrieves a course by ID with caching.
func (s *catalogService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var cached model.Course
	if s.cache.GetJSON(ctx, courseCacheKey(id), &cached) && cached.ID == id {
		cached.Normalize()
		return &cached, nil
	}

	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	course.Normalize()

	s.cache.SetJSON(ctx, courseCacheKey(id), course, s.ttl)
	return course, nil
}

// ListResources returns resources matching filter; never nil.
func (s *catalogService) ListResources(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, error) {
	var all []model.Resource
	if !s.cache.GetJSON(ctx, resourcesCacheKey, &all) || all == nil {
		var err error
		all, err = s.resourceRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list resources: %w", err)
		}
		if all == nil {
			all = []model.Resource{}
		}
		s.cache.SetJSON(ctx, resourcesCacheKey, all, s.ttl)
	}

	return model.FilterResources(all, filter), nil
}

// InvalidateCache drops cached lists and the given courses.
func (s *catalogService) InvalidateCache(ctx context.Context, courseIDs ...string) {
	keys := []string{coursesCacheKey, resourcesCacheKey}
	for _, id := range courseIDs {
		keys = append(keys, courseCacheKey(id))
	}
	_ = s.cache.Delete(ctx, keys...)
}

func normalizeCourses(courses []model.Course) []model.Course {
	if courses == nil {
		return []model.Course{}
	}
	for i := range courses {
		courses[i].Normalize()
	}
	return courses
}
