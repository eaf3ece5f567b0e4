package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academy/internal/model"
)

// ProgressRepository defines progress persistence operations.
type ProgressRepository interface {
	Create(ctx context.Context, progress *model.Progress) error
	Update(ctx context.Context, progress *model.Progress) error
	FindByUser(ctx context.Context, userID string) ([]model.Progress, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Progress, error)
	// FindByUserAndCourseForUpdate locks the row until the surrounding transaction ends.
	FindByUserAndCourseForUpdate(ctx context.Context, userID, courseID string) (*model.Progress, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProgressRepository) error) error
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Create creates a new progress record.
func (r *progressRepository) Create(ctx context.Context, progress *model.Progress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

// Update updates an existing progress record.
func (r *progressRepository) Update(ctx context.Context, progress *model.Progress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

// FindByUser finds all progress records of a user.
func (r *progressRepository) FindByUser(ctx context.Context, userID string) ([]model.Progress, error) {
	records := []model.Progress{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("course_id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByUserAndCourse finds the progress record for a (user, course) pair.
func (r *progressRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Progress, error) {
	var progress model.Progress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindByUserAndCourseForUpdate finds the (user, course) record with a row-level lock.
func (r *progressRepository) FindByUserAndCourseForUpdate(ctx context.Context, userID, courseID string) (*model.Progress, error) {
	var progress model.Progress
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// WithTransaction executes a function within a database transaction.
func (r *progressRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProgressRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &progressRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
