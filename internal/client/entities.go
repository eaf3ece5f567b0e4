package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"academy/internal/model"
)

// CourseEntity reads the course catalog.
type CourseEntity struct {
	c *Client
}

// List returns every course.
func (e *CourseEntity) List(ctx context.Context) ([]model.Course, error) {
	courses, err := fetch(ctx, e.c, http.MethodGet, "/courses", nil, func() ([]model.Course, error) {
		return e.c.fallbackCourses(), nil
	})
	if err != nil {
		return nil, err
	}
	return normalizeCourses(courses), nil
}

// Filter returns the courses keep accepts.
func (e *CourseEntity) Filter(ctx context.Context, keep func(model.Course) bool) ([]model.Course, error) {
	courses, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if keep == nil || keep(course) {
			out = append(out, course)
		}
	}
	return out, nil
}

// Get returns one course, or ErrNotFound.
func (e *CourseEntity) Get(ctx context.Context, id string) (*model.Course, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	course, err := fetch(ctx, e.c, http.MethodGet, "/courses/"+url.PathEscape(id), nil, func() (*model.Course, error) {
		return e.c.fallbackCourse(id)
	})
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	course.Normalize()
	return course, nil
}

// ResourceEntity reads the resource library.
type ResourceEntity struct {
	c *Client
}

// List returns the resources matching filter.
func (e *ResourceEntity) List(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, error) {
	path := "/resources"
	params := url.Values{}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resources, err := fetch(ctx, e.c, http.MethodGet, path, nil, func() ([]model.Resource, error) {
		return model.FilterResources(e.c.fallback.Resources, filter), nil
	})
	if err != nil {
		return nil, err
	}
	if resources == nil {
		resources = []model.Resource{}
	}
	return resources, nil
}

// ProgressEntity reads and records the current user's progress. Live answers
// are merged into local storage so offline reads return the same records.
// Completions recorded offline are queued and sent once the API answers again.
type ProgressEntity struct {
	c *Client
}

// ProgressKey is the storage key holding userID's progress records.
func ProgressKey(userID string) string {
	return "progress:" + userID
}

// PendingKey is the storage key holding userID's completions the API has not acknowledged.
func PendingKey(userID string) string {
	return "pending:" + userID
}

type pendingCompletion struct {
	CourseID string `json:"courseId"`
	LessonID string `json:"lessonId"`
}

// Filter returns the user's progress records, limited to courseIDs when given.
func (e *ProgressEntity) Filter(ctx context.Context, courseIDs ...string) ([]model.Progress, error) {
	state, ok := e.c.session.Load()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID := state.User.ID
	e.replay(ctx, userID)

	live := true
	records, err := fetch(ctx, e.c, http.MethodGet, "/progress", nil, func() ([]model.Progress, error) {
		live = false
		if !e.c.IsAuthenticated() {
			return nil, ErrNotAuthenticated
		}
		return e.stored(userID)
	})
	if err != nil {
		return nil, err
	}
	if live {
		if records, err = e.mirror(userID, records); err != nil {
			return nil, err
		}
	}
	return filterProgress(records, courseIDs), nil
}

// Update marks lessonID complete in courseID. Completing a lesson twice is a no-op.
func (e *ProgressEntity) Update(ctx context.Context, courseID, lessonID string) (*model.Progress, error) {
	if courseID == "" || lessonID == "" {
		return nil, ErrInvalidInput
	}
	state, ok := e.c.session.Load()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID := state.User.ID
	e.replay(ctx, userID)

	live := true
	body := pendingCompletion{CourseID: courseID, LessonID: lessonID}
	record, err := fetch(ctx, e.c, http.MethodPost, "/progress", body, func() (*model.Progress, error) {
		live = false
		if !e.c.IsAuthenticated() {
			return nil, ErrNotAuthenticated
		}
		return e.mergeLocal(userID, courseID, lessonID)
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("update progress: empty response")
	}
	record.Normalize()
	if live {
		if record, err = e.upsert(userID, *record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// Summary returns per-course completion for the user.
func (e *ProgressEntity) Summary(ctx context.Context) ([]model.CourseProgress, error) {
	state, ok := e.c.session.Load()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID := state.User.ID
	e.replay(ctx, userID)

	summary, err := fetch(ctx, e.c, http.MethodGet, "/progress/summary", nil, func() ([]model.CourseProgress, error) {
		if !e.c.IsAuthenticated() {
			return nil, ErrNotAuthenticated
		}
		records, err := e.stored(userID)
		if err != nil {
			return nil, err
		}
		out := make([]model.CourseProgress, 0, len(records))
		for _, p := range records {
			course, err := e.c.fallbackCourse(p.CourseID)
			if err != nil {
				continue
			}
			out = append(out, course.Summarize(p))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []model.CourseProgress{}
	}
	return summary, nil
}

// Pending returns the completions still waiting to reach the API.
func (e *ProgressEntity) Pending() (int, error) {
	state, ok := e.c.session.Load()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	e.c.progressMu.Lock()
	defer e.c.progressMu.Unlock()
	queue, err := e.loadPending(state.User.ID)
	return len(queue), err
}

// replay sends queued completions in order. An accepted completion is merged
// with the server's record. One the API refuses with a client error is dropped
// from the queue and from the local record. Any other failure stops the replay
// and keeps the rest queued.
func (e *ProgressEntity) replay(ctx context.Context, userID string) {
	e.c.progressMu.Lock()
	queue, err := e.loadPending(userID)
	e.c.progressMu.Unlock()
	if err != nil {
		e.c.warnf("read pending progress: %v", err)
		return
	}
	if len(queue) == 0 {
		return
	}

	var done, rejected []pendingCompletion
	var acked []model.Progress
	for _, item := range queue {
		var record model.Progress
		err := e.c.do(ctx, http.MethodPost, "/progress", item, &record)
		if err == nil {
			done = append(done, item)
			acked = append(acked, record)
			continue
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError && !statusErr.IsAuthError() {
			e.c.warnf("dropping offline completion %s/%s: %v", item.CourseID, item.LessonID, err)
			done = append(done, item)
			rejected = append(rejected, item)
			continue
		}
		break
	}
	if len(done) == 0 {
		return
	}

	e.c.progressMu.Lock()
	defer e.c.progressMu.Unlock()

	records, err := e.load(userID)
	if err != nil {
		e.c.warnf("replay progress: %v", err)
		return
	}
	for _, item := range rejected {
		for i := range records {
			if records[i].CourseID == item.CourseID {
				records[i].Without(item.LessonID)
			}
		}
	}
	for _, record := range acked {
		records = mergeRecord(records, record)
	}
	if err := e.save(userID, records); err != nil {
		e.c.warnf("replay progress: %v", err)
		return
	}

	current, err := e.loadPending(userID)
	if err != nil {
		e.c.warnf("replay progress: %v", err)
		return
	}
	if err := e.savePending(userID, removeCompletions(current, done)); err != nil {
		e.c.warnf("replay progress: %v", err)
	}
}

func (e *ProgressEntity) stored(userID string) ([]model.Progress, error) {
	e.c.progressMu.Lock()
	defer e.c.progressMu.Unlock()
	return e.load(userID)
}

func (e *ProgressEntity) load(userID string) ([]model.Progress, error) {
	var records []model.Progress
	if _, err := getJSON(e.c.store, ProgressKey(userID), &records); err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if records == nil {
		records = []model.Progress{}
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

func (e *ProgressEntity) save(userID string, records []model.Progress) error {
	if err := setJSON(e.c.store, ProgressKey(userID), records); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (e *ProgressEntity) loadPending(userID string) ([]pendingCompletion, error) {
	var queue []pendingCompletion
	if _, err := getJSON(e.c.store, PendingKey(userID), &queue); err != nil {
		return nil, fmt.Errorf("load pending progress: %w", err)
	}
	return queue, nil
}

func (e *ProgressEntity) savePending(userID string, queue []pendingCompletion) error {
	if len(queue) == 0 {
		return e.c.store.Delete(PendingKey(userID))
	}
	if err := setJSON(e.c.store, PendingKey(userID), queue); err != nil {
		return fmt.Errorf("save pending progress: %w", err)
	}
	return nil
}

// mirror merges the server's records into local storage and returns the
// merged set. Local lessons the server does not know yet are kept.
func (e *ProgressEntity) mirror(userID string, server []model.Progress) ([]model.Progress, error) {
	e.c.progressMu.Lock()
	defer e.c.progressMu.Unlock()

	records, err := e.load(userID)
	if err != nil {
		return nil, err
	}
	for _, record := range server {
		records = mergeRecord(records, record)
	}
	if err := e.save(userID, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (e *ProgressEntity) upsert(userID string, record model.Progress) (*model.Progress, error) {
	e.c.progressMu.Lock()
	defer e.c.progressMu.Unlock()

	records, err := e.load(userID)
	if err != nil {
		return nil, err
	}
	records = mergeRecord(records, record)
	if err := e.save(userID, records); err != nil {
		return nil, err
	}
	for _, p := range records {
		if p.CourseID == record.CourseID {
			return &p, nil
		}
	}
	return &record, nil
}

func (e *ProgressEntity) mergeLocal(userID, courseID, lessonID string) (*model.Progress, error) {
	course, err := e.c.fallbackCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasLesson(lessonID) {
		return nil, fmt.Errorf("lesson %q: %w", lessonID, ErrNotFound)
	}

	e.c.progressMu.Lock()
	defer e.c.progressMu.Unlock()

	records, err := e.load(userID)
	if err != nil {
		return nil, err
	}
	now := e.c.now().UTC()

	idx := -1
	for i := range records {
		if records[i].CourseID == courseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		records = append(records, model.Progress{
			ID:        uuid.New(),
			UserID:    userID,
			CourseID:  courseID,
			CreatedAt: now,
		})
		idx = len(records) - 1
	}
	if !records[idx].Complete(lessonID, now) {
		out := records[idx]
		return &out, nil
	}
	records[idx].UpdatedAt = now

	queue, err := e.loadPending(userID)
	if err != nil {
		return nil, err
	}
	if err := e.save(userID, records); err != nil {
		return nil, err
	}
	if err := e.savePending(userID, append(queue, pendingCompletion{CourseID: courseID, LessonID: lessonID})); err != nil {
		return nil, err
	}
	out := records[idx]
	return &out, nil
}

// mergeRecord folds a server record into records. The server's record is the
// base so its id wins; lessons only known locally are kept.
func mergeRecord(records []model.Progress, server model.Progress) []model.Progress {
	server.Normalize()
	for i := range records {
		if records[i].CourseID == server.CourseID {
			server.Merge(records[i])
			records[i] = server
			return records
		}
	}
	return append(records, server)
}

func removeCompletions(queue, done []pendingCompletion) []pendingCompletion {
	out := make([]pendingCompletion, 0, len(queue))
	remaining := append([]pendingCompletion(nil), done...)
	for _, item := range queue {
		matched := false
		for i, d := range remaining {
			if d == item {
				remaining = append(remaining[:i], remaining[i+1:]...)
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, item)
		}
	}
	return out
}

func filterProgress(records []model.Progress, courseIDs []string) []model.Progress {
	out := make([]model.Progress, 0, len(records))
	for _, p := range records {
		p.Normalize()
		if len(courseIDs) == 0 || contains(courseIDs, p.CourseID) {
			out = append(out, p)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (c *Client) fallbackCourses() []model.Course {
	out := make([]model.Course, len(c.fallback.Courses))
	for i, course := range c.fallback.Courses {
		out[i] = cloneCourse(course)
	}
	return out
}

func (c *Client) fallbackCourse(id string) (*model.Course, error) {
	for _, course := range c.fallback.Courses {
		if course.ID == id {
			found := cloneCourse(course)
			found.Normalize()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("course %q: %w", id, ErrNotFound)
}

// cloneCourse copies the module and lesson slices so callers never share
// backing arrays with the bundled dataset.
func cloneCourse(course model.Course) model.Course {
	if course.Modules == nil {
		return course
	}
	modules := make([]model.Module, len(course.Modules))
	for i, m := range course.Modules {
		modules[i] = m
		if m.Lessons != nil {
			modules[i].Lessons = append([]model.Lesson{}, m.Lessons...)
		}
	}
	course.Modules = modules
	return course
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
