// Package stats derives summary numbers from a checklist tree.
package stats

import (
	"fmt"
	"time"

	"github.com/pasperfection/checklist/internal/model"
)

// TrendDays is the length of the completion trend window.
const TrendDays = 7

// Compute walks the whole tree, children included, and tallies the
// statistics at the instant now. Items with a due date before now count
// as overdue unless completed; items due within horizon count as due
// soon.
func Compute(items []*model.Item, now time.Time, horizon time.Duration) model.Statistics {
	st := model.Statistics{ByTag: map[string]int{}}

	model.Walk(items, func(it *model.Item) {
		st.Total++
		if it.Completed {
			st.Completed++
		}
		if it.Overdue(now) {
			st.Overdue++
		}
		if it.DueSoon(now, horizon) {
			st.DueSoon++
		}
		switch it.Priority {
		case model.PriorityHigh:
			st.ByPriority.High++
		case model.PriorityMedium:
			st.ByPriority.Medium++
		case model.PriorityLow:
			st.ByPriority.Low++
		default:
			st.ByPriority.None++
		}
		for _, tag := range it.Tags {
			st.ByTag[tag]++
		}
	})

	st.Trend = trend(items, now)
	return st
}

// trend reports, for each of the last TrendDays calendar days, how many
// items were completed on that day and how many existed by its end.
func trend(items []*model.Item, now time.Time) []model.TrendDay {
	days := make([]model.TrendDay, TrendDays)
	for i := range days {
		day := now.AddDate(0, 0, i-TrendDays+1)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)

		td := model.TrendDay{Date: start.Format("2006-01-02")}
		model.Walk(items, func(it *model.Item) {
			if it.CompletedAt != nil && !it.CompletedAt.Before(start) && it.CompletedAt.Before(end) {
				td.Completed++
			}
			if it.CreatedAt.Before(end) {
				td.Total++
			}
		})
		days[i] = td
	}
	return days
}

// Progress renders completion as "40% (4/10)". An empty checklist
// reports "0%".
func Progress(st model.Statistics) string {
	if st.Total == 0 {
		return "0%"
	}
	pct := st.Completed * 100 / st.Total
	return fmt.Sprintf("%d%% (%d/%d)", pct, st.Completed, st.Total)
}
