package planning

import "time"

const (
	completionWindow = 7 * 24 * time.Hour
	dueSoonDays      = 3
)

// Stats summarizes a task collection at a point in time.
type Stats struct {
	Total             int   `json:"total"`
	Done              int   `json:"done"`
	CompletedThisWeek int   `json:"completedThisWeek"`
	Overdue           int   `json:"overdue"`
	DueSoon           int   `json:"dueSoon"`
	NearestDue        *Task `json:"nearestDue,omitempty"`
}

// NearestDueLabel renders the nearest due date, "--" when there is none.
func (s Stats) NearestDueLabel() string {
	if s.NearestDue == nil {
		return "--"
	}
	return s.NearestDue.DueDate
}

// ComputeStats derives the statistics; nothing is cached. Calendar
// comparisons use now's location.
func ComputeStats(tasks []Task, now time.Time) Stats {
	loc := now.Location()
	today := startOfDay(now)
	soonLimit := today.AddDate(0, 0, dueSoonDays)
	weekAgo := now.Add(-completionWindow)

	s := Stats{Total: len(tasks)}
	var nearest time.Time
	for _, t := range tasks {
		if t.Done {
			s.Done++
			if t.CompletedAt != nil && !t.CompletedAt.Before(weekAgo) {
				s.CompletedThisWeek++
			}
			continue
		}

		due, ok := t.Due(loc)
		if !ok {
			continue
		}
		if due.Before(today) {
			s.Overdue++
		} else if !due.After(soonLimit) {
			s.DueSoon++
		}
		if s.NearestDue == nil || due.Before(nearest) {
			nearest = due
			s.NearestDue = &t
		}
	}
	return s
}
