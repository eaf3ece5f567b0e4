package repository

import (
	"context"

	"gorm.io/gorm"

	"academy/internal/model"
)

// CourseRepository defines course persistence operations.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course.
func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// Update updates an existing course.
func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// FindByID finds a course by ID.
func (r *courseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDs finds the courses with the given IDs, in id order.
func (r *courseRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	courses := []model.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// List lists all courses ordered by title.
func (r *courseRepository) List(ctx context.Context) ([]model.Course, error) {
	courses := []model.Course{}
	if err := r.db.WithContext(ctx).Order("title").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
