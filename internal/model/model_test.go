package model

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course() Course {
	return Course{
		ID:    "c1",
		Title: "Course",
		Modules: []Module{
			{ID: "m1", Lessons: []Lesson{{ID: "l1"}, {ID: "l2"}}},
			{ID: "m2", Lessons: []Lesson{{ID: "l3"}}},
		},
	}
}

func TestProgress_Complete(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Progress{CompletedLessons: []string{"l1"}, LastAccessed: t0}

	assert.False(t, p.Complete("l1", t0.Add(time.Hour)))
	assert.Equal(t, t0, p.LastAccessed)

	assert.True(t, p.Complete("l2", t0.Add(time.Hour)))
	assert.Equal(t, []string{"l1", "l2"}, []string(p.CompletedLessons))
	assert.Equal(t, t0.Add(time.Hour), p.LastAccessed)

	assert.True(t, p.Complete("l3", t0))
	assert.Equal(t, t0.Add(time.Hour), p.LastAccessed)
}

func TestProgress_Merge(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	server := Progress{CourseID: "c1", CompletedLessons: []string{"l2"}, LastAccessed: t0}
	local := Progress{CourseID: "c1", CompletedLessons: []string{"l1", "l2"}, LastAccessed: t0.Add(time.Hour)}

	server.Merge(local)
	assert.Equal(t, []string{"l2", "l1"}, []string(server.CompletedLessons))
	assert.Equal(t, t0.Add(time.Hour), server.LastAccessed)

	server.Merge(Progress{CourseID: "c1", LastAccessed: t0})
	assert.Equal(t, t0.Add(time.Hour), server.LastAccessed)

	server.Merge(Progress{CourseID: "other", CompletedLessons: []string{"x"}})
	assert.Equal(t, []string{"l2", "l1"}, []string(server.CompletedLessons))

	server.Without("l2")
	assert.Equal(t, []string{"l1"}, []string(server.CompletedLessons))
}

func TestNormalizeSerializesEmptyArrays(t *testing.T) {
	var p Progress
	p.Normalize()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"completedLessons":[]`)

	c := Course{ID: "c", Modules: []Module{{ID: "m"}}}
	c.Normalize()
	raw, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lessons":[]`)
}

func TestCourse_Summarize(t *testing.T) {
	c := course()
	assert.Equal(t, 3, c.LessonCount())
	assert.True(t, c.HasLesson("l3"))
	assert.False(t, c.HasLesson("l4"))

	s := c.Summarize(Progress{CourseID: "c1", CompletedLessons: []string{"l1", "gone"}})
	assert.Equal(t, 1, s.CompletedLessons)
	assert.Equal(t, 3, s.TotalLessons)
	assert.Equal(t, int64(33), s.Percent)
}

func TestCompletionPercent(t *testing.T) {
	tests := []struct {
		completed, total int
		expected         int64
	}{
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{4, 4, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.completed, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.expected, CompletionPercent(tt.completed, tt.total))
		})
	}
}

func TestFilterResources(t *testing.T) {
	resources := []Resource{
		{ID: "a", Title: "Sustainable Branding Guide", Category: "Guides"},
		{ID: "b", Title: "Material Audit Checklist", Category: "Tools", Description: "supply chain"},
	}

	assert.Len(t, FilterResources(resources, ResourceFilter{}), 2)
	assert.Len(t, FilterResources(resources, ResourceFilter{Category: "ALL"}), 2)
	assert.Equal(t, "b", FilterResources(resources, ResourceFilter{Query: "Supply"})[0].ID)
	assert.Equal(t, "a", FilterResources(resources, ResourceFilter{Category: "Guides"})[0].ID)

	empty := FilterResources(nil, ResourceFilter{Category: "Guides"})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
