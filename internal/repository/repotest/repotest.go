// Package repotest provides in-memory repositories for tests. They honour the
// same contracts as the gorm implementations: lookups miss with
// gorm.ErrRecordNotFound and a second progress row for the same
// (user, course) fails with gorm.ErrDuplicatedKey.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"academy/internal/model"
	"academy/internal/repository"
)

// UserStore is an in-memory repository.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: map[string]model.User{}}
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

// CourseStore is an in-memory repository.CourseRepository.
type CourseStore struct {
	mu      sync.Mutex
	courses map[string]model.Course
}

// NewCourseStore creates an empty course store.
func NewCourseStore() *CourseStore {
	return &CourseStore{courses: map[string]model.Course{}}
}

func (s *CourseStore) Create(ctx context.Context, course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[course.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.courses[course.ID] = *course
	return nil
}

func (s *CourseStore) Update(ctx context.Context, course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = *course
	return nil
}

func (s *CourseStore) FindByID(ctx context.Context, id string) (*model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (s *CourseStore) FindByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Course{}
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CourseStore) List(ctx context.Context) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Course{}
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// ResourceStore is an in-memory repository.ResourceRepository.
type ResourceStore struct {
	mu        sync.Mutex
	resources map[string]model.Resource
}

// NewResourceStore creates an empty resource store.
func NewResourceStore() *ResourceStore {
	return &ResourceStore{resources: map[string]model.Resource{}}
}

func (s *ResourceStore) Create(ctx context.Context, resource *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[resource.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.resources[resource.ID] = *resource
	return nil
}

func (s *ResourceStore) Update(ctx context.Context, resource *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[resource.ID] = *resource
	return nil
}

func (s *ResourceStore) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (s *ResourceStore) List(ctx context.Context) ([]model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Resource{}
	for _, r := range s.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// ProgressStore is an in-memory repository.ProgressRepository. WithTransaction
// runs fn directly; callers serialize writers themselves.
type ProgressStore struct {
	mu      sync.Mutex
	records map[string]model.Progress
	writes  int
}

// NewProgressStore creates an empty progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{records: map[string]model.Progress{}}
}

func progressKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (s *ProgressStore) Create(ctx context.Context, progress *model.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey(progress.UserID, progress.CourseID)
	if _, ok := s.records[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	s.records[key] = cloneProgress(*progress)
	s.writes++
	return nil
}

func (s *ProgressStore) Update(ctx context.Context, progress *model.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[progressKey(progress.UserID, progress.CourseID)] = cloneProgress(*progress)
	s.writes++
	return nil
}

func (s *ProgressStore) FindByUser(ctx context.Context, userID string) ([]model.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Progress{}
	for _, p := range s.records {
		if p.UserID == userID {
			out = append(out, cloneProgress(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (s *ProgressStore) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*model.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[progressKey(userID, courseID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cloneProgress(p)
	return &c, nil
}

func (s *ProgressStore) FindByUserAndCourseForUpdate(ctx context.Context, userID, courseID string) (*model.Progress, error) {
	return s.FindByUserAndCourse(ctx, userID, courseID)
}

func (s *ProgressStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ProgressRepository) error) error {
	return fn(ctx, s)
}

// Writes returns how many Create and Update calls succeeded.
func (s *ProgressStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func cloneProgress(p model.Progress) model.Progress {
	lessons := make([]string, len(p.CompletedLessons))
	copy(lessons, p.CompletedLessons)
	p.CompletedLessons = lessons
	return p
}

var (
	_ repository.UserRepository     = (*UserStore)(nil)
	_ repository.CourseRepository   = (*CourseStore)(nil)
	_ repository.ResourceRepository = (*ResourceStore)(nil)
	_ repository.ProgressRepository = (*ProgressStore)(nil)
)
