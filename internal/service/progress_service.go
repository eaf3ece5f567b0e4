package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "academy/internal/errors"
	"academy/internal/model"
	"academy/internal/repository"
)

// ProgressService tracks lesson completion per user and course.
type ProgressService interface {
	ListProgress(ctx context.Context, userID string) ([]model.Progress, error)
	RecordLessonCompletion(ctx context.Context, userID, courseID, lessonID string) (*model.Progress, error)
	Summary(ctx context.Context, userID string) ([]model.CourseProgress, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	courseRepo   repository.CourseRepository
	catalog      CatalogService
	now          func() time.Time

	// per (user, course) locks; an entry lives only while someone holds or waits for it
	locksMu sync.Mutex
	locks   map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// ProgressOption customizes a progress service.
type ProgressOption func(*progressService)

// WithClock overrides the time source used for lastAccessed.
func WithClock(now func() time.Time) ProgressOption {
	return func(s *progressService) {
		s.now = now
	}
}

// NewProgressService creates a new progress service.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	courseRepo repository.CourseRepository,
	catalog CatalogService,
	opts ...ProgressOption,
) ProgressService {
	s := &progressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		catalog:      catalog,
		now:          func() time.Time { return time.Now().UTC() },
		locks:        map[string]*keyLock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock serializes writers of one (user, course) pair and returns the unlock func.
func (s *progressService) lock(userID, courseID string) func() {
	key := userID + "|" + courseID

	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.locksMu.Unlock()
	}
}

func (s *progressService) heldLocks() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

// ListProgress returns every progress record of the user; never nil.
func (s *progressService) ListProgress(ctx context.Context, userID string) ([]model.Progress, error) {
	records, err := s.progressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	if records == nil {
		return []model.Progress{}, nil
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

// RecordLessonCompletion merges lessonID into the user's record for courseID.
// Repeating a completion is a no-op that returns the stored record.
func (s *progressService) RecordLessonCompletion(ctx context.Context, userID, courseID, lessonID string) (*model.Progress, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(courseID) == "" || strings.TrimSpace(lessonID) == "" {
		return nil, apperrors.ErrInvalidRequest
	}

	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasLesson(lessonID) {
		return nil, apperrors.ErrLessonNotFound
	}

	unlock := s.lock(userID, courseID)
	defer unlock()

	progress, err := s.merge(ctx, userID, courseID, lessonID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// another process inserted the row first; the second pass sees it
		progress, err = s.merge(ctx, userID, courseID, lessonID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("record lesson completion: %w", err)
	}

	progress.Normalize()
	return progress, nil
}

func (s *progressService) merge(ctx context.Context, userID, courseID, lessonID string) (*model.Progress, error) {
	var result *model.Progress
	err := s.progressRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.ProgressRepository) error {
		existing, err := repo.FindByUserAndCourseForUpdate(ctx, userID, courseID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.now()
		if existing == nil {
			created := &model.Progress{
				UserID:           userID,
				CourseID:         courseID,
				CompletedLessons: datatypes.JSONSlice[string]{lessonID},
				LastAccessed:     now,
			}
			if err := repo.Create(ctx, created); err != nil {
				return err
			}
			result = created
			return nil
		}

		if !existing.Complete(lessonID, now) {
			result = existing
			return nil
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary reports completion per course the user has progress in.
func (s *progressService) Summary(ctx context.Context, userID string) ([]model.CourseProgress, error) {
	records, err := s.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, p := range records {
		ids = append(ids, p.CourseID)
	}
	courses, err := s.courseRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	summary := make([]model.CourseProgress, 0, len(records))
	for _, p := range records {
		course, ok := byID[p.CourseID]
		if !ok {
			continue
		}
		summary = append(summary, course.Summarize(p))
	}
	return summary, nil
}
