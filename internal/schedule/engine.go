// Package schedule classifies mentor task occurrences and lays them out on
// calendar grids. Every function is pure; callers capture now once per
// request and pass the same value to every call of one view.
package schedule

import (
	"sort"
	"time"

	"super-tasks/internal/model"
)

// DayLayout is the format of day keys.
const DayLayout = "2006-01-02"

// Status is the read-time projection of one occurrence.
type Status struct {
	Overdue bool `json:"overdue"`
}

// Summary counts the occurrences of one bucket.
type Summary struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Undone  int `json:"undone"`
	Overdue int `json:"overdue"`
}

// Classify reports whether occ is overdue at now.
func Classify(occ model.MentorTaskLog, now time.Time) Status {
	return Status{Overdue: IsOverdue(occ, now)}
}

// IsOverdue is true for a pending occurrence whose deadline is strictly before now.
func IsOverdue(occ model.MentorTaskLog, now time.Time) bool {
	return !occ.Completed && occ.Deadline != nil && occ.Deadline.Before(now)
}

// DueToday is true for a pending occurrence whose deadline falls on the same
// local calendar day as now, whether or not that instant has passed.
func DueToday(occ model.MentorTaskLog, now time.Time, loc *time.Location) bool {
	if occ.Completed || occ.Deadline == nil {
		return false
	}
	return DayKey(*occ.Deadline, loc) == DayKey(now, loc)
}

// DayKey returns the local calendar date of t.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(DayLayout)
}

// BucketByDay groups occurrences by the local date of their deadline.
// Occurrences without a deadline are left out.
func BucketByDay(occs []model.MentorTaskLog, loc *time.Location) map[string][]model.MentorTaskLog {
	buckets := make(map[string][]model.MentorTaskLog)
	for _, occ := range occs {
		if occ.Deadline == nil {
			continue
		}
		key := DayKey(*occ.Deadline, loc)
		buckets[key] = append(buckets[key], occ)
	}
	return buckets
}

// Summarize counts one day's occurrences; overdue is judged against now.
func Summarize(bucket []model.MentorTaskLog, now time.Time) Summary {
	s := Summary{Total: len(bucket)}
	for _, occ := range bucket {
		if occ.Completed {
			s.Done++
		}
		if IsOverdue(occ, now) {
			s.Overdue++
		}
	}
	s.Undone = s.Total - s.Done
	return s
}

// Agenda returns a copy of occs ordered for display: pending before done,
// then by deadline with missing deadlines last. Equal keys keep input order.
func Agenda(occs []model.MentorTaskLog) []model.MentorTaskLog {
	out := make([]model.MentorTaskLog, len(occs))
	copy(out, occs)
	sort.SliceStable(out, func(i, j int) bool {
		return agendaLess(out[i], out[j])
	})
	return out
}

func agendaLess(a, b model.MentorTaskLog) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	switch {
	case a.Deadline == nil:
		return false
	case b.Deadline == nil:
		return true
	default:
		return a.Deadline.Before(*b.Deadline)
	}
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
