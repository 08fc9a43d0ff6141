package service

import (
	"context"
	"time"

	"super-tasks/internal/repository"
	"super-tasks/internal/schedule"
)

// CalendarQuery selects one calendar page.
type CalendarQuery struct {
	View     schedule.View
	Anchor   time.Time
	Location *time.Location
	// Category and TaskID narrow the page to matching tasks when set.
	Category string
	TaskID   uint
	Now      time.Time
}

// CalendarDay is one grid cell. Items are in agenda order.
type CalendarDay struct {
	Date     string           `json:"date"`
	InPeriod bool             `json:"in_period"`
	Today    bool             `json:"today"`
	Summary  schedule.Summary `json:"summary"`
	Items    []LogView        `json:"items"`
}

type CalendarView struct {
	View    schedule.View    `json:"view"`
	From    time.Time        `json:"from"`
	To      time.Time        `json:"to"`
	Prev    string           `json:"prev"`
	Next    string           `json:"next"`
	Summary schedule.Summary `json:"summary"`
	Days    []CalendarDay    `json:"days"`
}

// Calendar loads the user's logs inside the view window and lays them out per
// local day. Every cell is classified against the same q.Now.
func (s *MentorService) Calendar(ctx context.Context, userID uint, q CalendarQuery) (*CalendarView, error) {
	loc := orLocal(q.Location)
	window, err := schedule.RangeFor(q.View, q.Anchor, loc)
	if err != nil {
		return nil, err
	}

	filter := repository.LogFilter{
		Deadline: repository.DateRange{From: &window.From, To: &window.To},
	}
	if q.Category != "" {
		ids, err := s.repo.TaskIDsInCategory(ctx, q.Category)
		if err != nil {
			return nil, err
		}
		filter.TaskIDs = ids
	}
	if q.TaskID != 0 {
		filter.TaskIDs = intersect(filter.TaskIDs, q.TaskID)
	}

	logs, err := s.repo.ListLogs(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	buckets := schedule.BucketByDay(logs, loc)
	anchorMonth := q.Anchor.In(loc).Month()
	today := schedule.DayKey(q.Now, loc)

	view := &CalendarView{
		View:    q.View,
		From:    window.From,
		To:      window.To,
		Prev:    schedule.Step(q.View, q.Anchor, -1, loc).Format(schedule.DayLayout),
		Next:    schedule.Step(q.View, q.Anchor, 1, loc).Format(schedule.DayLayout),
		Summary: schedule.Summarize(logs, q.Now),
	}
	for _, day := range schedule.Days(window, loc) {
		key := day.Format(schedule.DayLayout)
		bucket := buckets[key]
		view.Days = append(view.Days, CalendarDay{
			Date:     key,
			InPeriod: q.View != schedule.ViewMonth || day.Month() == anchorMonth,
			Today:    key == today,
			Summary:  schedule.Summarize(bucket, q.Now),
			Items:    views(schedule.Agenda(bucket), q.Now),
		})
	}
	return view, nil
}

// intersect narrows ids to id. A nil ids means no earlier restriction.
func intersect(ids []uint, id uint) []uint {
	if ids == nil {
		return []uint{id}
	}
	for _, v := range ids {
		if v == id {
			return []uint{id}
		}
	}
	return []uint{}
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
