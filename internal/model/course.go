package model

import (
	"time"

	"gorm.io/datatypes"
)

// Lesson is a single unit of a module.
type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// Module groups ordered lessons.
type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Course is catalog data; modules are stored as a JSON column.
type Course struct {
	ID          string                     `json:"id" gorm:"size:128;primaryKey"`
	Title       string                     `json:"title" gorm:"size:255;not null"`
	Description string                     `json:"description" gorm:"type:text"`
	Thumbnail   string                     `json:"thumbnail" gorm:"size:512"`
	Modules     datatypes.JSONSlice[Module] `json:"modules"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

// HasLesson reports whether lessonID belongs to one of the course modules.
func (c *Course) HasLesson(lessonID string) bool {
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if l.ID == lessonID {
				return true
			}
		}
	}
	return false
}

// LessonCount returns the total number of lessons across modules.
func (c *Course) LessonCount() int {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Lessons)
	}
	return total
}

// Normalize replaces nil collections so the course always serializes with arrays.
func (c *Course) Normalize() {
	if c.Modules == nil {
		c.Modules = datatypes.JSONSlice[Module]{}
	}
	for i := range c.Modules {
		if c.Modules[i].Lessons == nil {
			c.Modules[i].Lessons = []Lesson{}
		}
	}
}
