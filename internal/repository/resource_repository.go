package repository

import (
	"context"

	"gorm.io/gorm"

	"academy/internal/model"
)

// ResourceRepository defines resource persistence operations.
type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	Update(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	List(ctx context.Context) ([]model.Resource, error)
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// Create creates a new resource record.
func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

// Update updates an existing resource record.
func (r *resourceRepository) Update(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

// FindByID finds a resource by ID.
func (r *resourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// List lists all resources ordered by title.
func (r *resourceRepository) List(ctx context.Context) ([]model.Resource, error) {
	resources := []model.Resource{}
	if err := r.db.WithContext(ctx).Order("title").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}
