package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress accumulates the lessons a user completed in one course.
// (UserID, CourseID) is unique; CompletedLessons holds no duplicates.
type Progress struct {
	ID               uuid.UUID                  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID           string                     `json:"userId" gorm:"size:64;not null;uniqueIndex:idx_progress_user_course"`
	CourseID         string                     `json:"courseId" gorm:"size:128;not null;uniqueIndex:idx_progress_user_course"`
	CompletedLessons datatypes.JSONSlice[string] `json:"completedLessons"`
	LastAccessed     time.Time                  `json:"lastAccessed"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasLesson reports whether lessonID is already completed.
func (p *Progress) HasLesson(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Complete appends lessonID once and moves LastAccessed forward to at.
// It returns false, leaving the record untouched, when the lesson is already present.
func (p *Progress) Complete(lessonID string, at time.Time) bool {
	if p.HasLesson(lessonID) {
		return false
	}
	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	if at.After(p.LastAccessed) {
		p.LastAccessed = at
	}
	return true
}

// Merge folds other into p: the union of completed lessons, in p's order first,
// and the later LastAccessed. Records of different courses are not merged.
func (p *Progress) Merge(other Progress) {
	if other.CourseID != p.CourseID {
		return
	}
	for _, id := range other.CompletedLessons {
		if !p.HasLesson(id) {
			p.CompletedLessons = append(p.CompletedLessons, id)
		}
	}
	if other.LastAccessed.After(p.LastAccessed) {
		p.LastAccessed = other.LastAccessed
	}
	if other.UpdatedAt.After(p.UpdatedAt) {
		p.UpdatedAt = other.UpdatedAt
	}
}

// Without removes lessonID from the completed set.
func (p *Progress) Without(lessonID string) {
	kept := p.CompletedLessons[:0]
	for _, id := range p.CompletedLessons {
		if id != lessonID {
			kept = append(kept, id)
		}
	}
	p.CompletedLessons = kept
}

// Normalize replaces a nil lesson set so it serializes as [].
func (p *Progress) Normalize() {
	if p.CompletedLessons == nil {
		p.CompletedLessons = datatypes.JSONSlice[string]{}
	}
}

// CourseProgress is the per-course completion summary shown on the dashboard.
type CourseProgress struct {
	CourseID         string    `json:"courseId"`
	Title            string    `json:"title"`
	CompletedLessons int       `json:"completedLessons"`
	TotalLessons     int       `json:"totalLessons"`
	Percent          int64     `json:"percent"`
	LastAccessed     time.Time `json:"lastAccessed"`
}

// Summarize reports how much of course p covers. Lesson ids no longer in the
// course are not counted.
func (c *Course) Summarize(p Progress) CourseProgress {
	completed := 0
	for _, id := range p.CompletedLessons {
		if c.HasLesson(id) {
			completed++
		}
	}
	total := c.LessonCount()
	return CourseProgress{
		CourseID:         c.ID,
		Title:            c.Title,
		CompletedLessons: completed,
		TotalLessons:     total,
		Percent:          CompletionPercent(completed, total),
		LastAccessed:     p.LastAccessed,
	}
}

// CompletionPercent returns round(completed/total*100), or 0 for an empty course.
func CompletionPercent(completed, total int) int64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(completed)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart()
}
