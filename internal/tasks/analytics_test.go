package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
)

var t0 = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func completedAfter(d time.Duration) models.Task {
	at := t0.Add(d)
	return models.Task{Status: models.StatusCompleted, CreatedAt: t0, CompletedAt: &at}
}

func pending() models.Task {
	return models.Task{Status: models.StatusPending, CreatedAt: t0}
}

func TestComputeCompletionStats(t *testing.T) {
	testCases := []struct {
		name  string
		tasks []models.Task
		want  models.CompletionStats
	}{
		{
			name:  "no tasks",
			tasks: nil,
			want:  models.CompletionStats{},
		},
		{
			name:  "half done",
			tasks: []models.Task{pending(), completedAfter(time.Hour)},
			want:  models.CompletionStats{TotalTasks: 2, CompletedTasks: 1, PendingTasks: 1, CompletionPercentage: 50},
		},
		{
			name:  "one third rounds to two decimals",
			tasks: []models.Task{pending(), pending(), completedAfter(time.Hour)},
			want:  models.CompletionStats{TotalTasks: 3, CompletedTasks: 1, PendingTasks: 2, CompletionPercentage: 33.33},
		},
		{
			name: "other statuses count as not completed",
			tasks: []models.Task{
				{Status: "in-progress", CreatedAt: t0},
				{Status: "Completed", CreatedAt: t0},
				completedAfter(time.Hour),
			},
			want: models.CompletionStats{TotalTasks: 3, CompletedTasks: 1, PendingTasks: 2, CompletionPercentage: 33.33},
		},
		{
			name:  "all done",
			tasks: []models.Task{completedAfter(time.Hour), completedAfter(2 * time.Hour)},
			want:  models.CompletionStats{TotalTasks: 2, CompletedTasks: 2, PendingTasks: 0, CompletionPercentage: 100},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeCompletionStats(tc.tasks))
		})
	}
}

func TestComputeProductivityMetrics(t *testing.T) {
	missingStamp := models.Task{Status: models.StatusCompleted, CreatedAt: t0}
	reopened := completedAfter(10 * time.Hour)
	reopened.Status = models.StatusPending
	negative := completedAfter(-time.Hour)

	testCases := []struct {
		name        string
		tasks       []models.Task
		period      string
		wantPeriod  string
		wantCreated int
		wantDone    int
		wantRate    float64
		wantAverage *float64
	}{
		{
			name:       "no tasks",
			wantPeriod: DefaultPeriod,
		},
		{
			name:        "mean over completed tasks",
			tasks:       []models.Task{pending(), completedAfter(time.Hour), completedAfter(2 * time.Hour)},
			period:      "week",
			wantPeriod:  "week",
			wantCreated: 3,
			wantDone:    2,
			wantRate:    66.67,
			wantAverage: floatPtr(1.5),
		},
		{
			name:        "completed without timestamp is excluded from mean",
			tasks:       []models.Task{missingStamp, completedAfter(3 * time.Hour)},
			wantPeriod:  DefaultPeriod,
			wantCreated: 2,
			wantDone:    2,
			wantRate:    100,
			wantAverage: floatPtr(3),
		},
		{
			name:        "no measurable duration",
			tasks:       []models.Task{missingStamp, pending()},
			period:      "month",
			wantPeriod:  "month",
			wantCreated: 2,
			wantDone:    1,
			wantRate:    50,
		},
		{
			name:        "reopened task is not counted",
			tasks:       []models.Task{reopened, completedAfter(30 * time.Minute)},
			wantPeriod:  DefaultPeriod,
			wantCreated: 2,
			wantDone:    1,
			wantRate:    50,
			wantAverage: floatPtr(0.5),
		},
		{
			name:        "negative duration is excluded",
			tasks:       []models.Task{negative, completedAfter(time.Hour)},
			wantPeriod:  DefaultPeriod,
			wantCreated: 2,
			wantDone:    2,
			wantRate:    100,
			wantAverage: floatPtr(1),
		},
		{
			name:        "rounding only at output",
			tasks:       []models.Task{completedAfter(20 * time.Minute), completedAfter(20 * time.Minute), completedAfter(20 * time.Minute)},
			wantPeriod:  DefaultPeriod,
			wantCreated: 3,
			wantDone:    3,
			wantRate:    100,
			wantAverage: floatPtr(0.33),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeProductivityMetrics(tc.tasks, tc.period)
			assert.Equal(t, tc.wantPeriod, got.Period)
			assert.Equal(t, tc.wantCreated, got.TasksCreated)
			assert.Equal(t, tc.wantDone, got.TasksCompleted)
			assert.Equal(t, tc.wantRate, got.CompletionRate)
			assert.Equal(t, CompletionTimeUnit, got.TimeUnit)
			if tc.wantAverage == nil {
				assert.Nil(t, got.AverageCompletionTime)
				return
			}
			require.NotNil(t, got.AverageCompletionTime)
			assert.Equal(t, *tc.wantAverage, *got.AverageCompletionTime)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
