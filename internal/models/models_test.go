package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"collabry/internal/models"
)

func TestStatusValid(t *testing.T) {
	for _, s := range models.Statuses {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, models.Status("ARCHIVED").Valid())
	assert.False(t, models.Status("").Valid())
	assert.False(t, models.Status("todo").Valid())
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent} {
		assert.True(t, p.Valid(), "priority %s", p)
	}
	assert.False(t, models.Priority("CRITICAL").Valid())
	assert.False(t, models.Priority("").Valid())
}

func TestOverdueAndDueSoon(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	cases := []struct {
		name    string
		due     *time.Time
		status  models.Status
		overdue bool
		dueSoon bool
	}{
		{"no due date", nil, models.StatusTodo, false, false},
		{"past and open", at(-time.Hour), models.StatusInProgress, true, true},
		{"past but done", at(-time.Hour), models.StatusDone, false, false},
		{"within 48h", at(24 * time.Hour), models.StatusReview, false, true},
		{"exactly 48h", at(48 * time.Hour), models.StatusTodo, false, true},
		{"beyond 48h", at(72 * time.Hour), models.StatusTodo, false, false},
		{"within 48h but done", at(24 * time.Hour), models.StatusDone, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := models.Task{Status: tc.status, DueDate: tc.due}
			assert.Equal(t, tc.overdue, task.Overdue(now), "overdue")
			assert.Equal(t, tc.dueSoon, task.DueSoon(now), "due soon")
		})
	}
}
