package tasks

import (
	"math"

	"taskhub/internal/models"
)

// DefaultPeriod is reported when the caller names no period.
const DefaultPeriod = "all"

// CompletionTimeUnit is the unit of ProductivityMetrics.AverageCompletionTime.
const CompletionTimeUnit = "hours"

// ComputeCompletionStats counts tasks by status. Percentages are in [0,100]
// and rounded to two decimals.
func ComputeCompletionStats(all []models.Task) models.CompletionStats {
	completed := countCompleted(all)
	return models.CompletionStats{
		TotalTasks:           len(all),
		CompletedTasks:       completed,
		PendingTasks:         len(all) - completed,
		CompletionPercentage: percentage(completed, len(all)),
	}
}

// ComputeProductivityMetrics derives throughput and the mean time from
// creation to completion, in hours. Completed tasks without a usable
// completed_at are left out of the mean; the mean is nil when nothing is left.
func ComputeProductivityMetrics(all []models.Task, period string) models.ProductivityMetrics {
	if period == "" {
		period = DefaultPeriod
	}

	var (
		total   float64
		samples int
	)
	for _, t := range all {
		if !t.IsCompleted() || t.CompletedAt == nil || t.CreatedAt.IsZero() {
			continue
		}
		d := t.CompletedAt.Sub(t.CreatedAt)
		if d < 0 {
			continue
		}
		total += d.Hours()
		samples++
	}

	var average *float64
	if samples > 0 {
		v := round2(total / float64(samples))
		average = &v
	}

	completed := countCompleted(all)
	return models.ProductivityMetrics{
		Period:                period,
		TasksCreated:          len(all),
		TasksCompleted:        completed,
		CompletionRate:        percentage(completed, len(all)),
		AverageCompletionTime: average,
		TimeUnit:              CompletionTimeUnit,
	}
}

func countCompleted(all []models.Task) int {
	n := 0
	for _, t := range all {
		if t.IsCompleted() {
			n++
		}
	}
	return n
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
