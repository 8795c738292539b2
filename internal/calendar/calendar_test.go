package calendar_test

import (
	"testing"
	"time"

	"github.com/nhle/todoboard/internal/calendar"
	"github.com/nhle/todoboard/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func todoOn(date time.Time, completed bool) model.Todo {
	return model.Todo{
		ID:        "t-" + date.Format("20060102"),
		Title:     "task",
		Completed: completed,
		Section:   model.SectionFor(completed),
		CreatedAt: date,
	}
}

func TestMonthGridShape(t *testing.T) {
	// June 2025 starts on a Sunday, so the grid opens on June 1.
	days := calendar.MonthGrid(day(2025, time.June, 15), nil, nil, day(2025, time.June, 15))

	if len(days) != 42 {
		t.Fatalf("grid has %d cells, want 42", len(days))
	}
	if !days[0].Date.Equal(day(2025, time.June, 1)) {
		t.Errorf("grid starts at %v, want June 1", days[0].Date)
	}
	if days[0].Date.Weekday() != time.Sunday {
		t.Errorf("grid starts on %v, want Sunday", days[0].Date.Weekday())
	}

	current := 0
	for _, d := range days {
		if d.IsCurrentMonth {
			current++
		}
	}
	if current != 30 {
		t.Errorf("%d current-month cells, want 30", current)
	}
}

func TestMonthGridPadsToPriorSunday(t *testing.T) {
	// July 2025 starts on a Tuesday; the grid opens two days earlier.
	days := calendar.MonthGrid(day(2025, time.July, 1), nil, nil, day(2025, time.July, 1))

	if !days[0].Date.Equal(day(2025, time.June, 29)) {
		t.Errorf("grid starts at %v, want June 29", days[0].Date)
	}
	if days[0].IsCurrentMonth || days[1].IsCurrentMonth {
		t.Error("padding cells flagged as current month")
	}
	if !days[2].IsCurrentMonth {
		t.Error("July 1 not flagged as current month")
	}
}

func TestMonthGridTaskMarkers(t *testing.T) {
	todos := []model.Todo{
		todoOn(day(2025, time.June, 3).Add(9*time.Hour), false),
		todoOn(day(2025, time.June, 5), true),
		todoOn(day(2025, time.June, 5), true),
	}

	days := calendar.MonthGrid(day(2025, time.June, 1), todos, nil, day(2025, time.June, 1))

	byDate := make(map[int]calendar.Day)
	for _, d := range days {
		if d.IsCurrentMonth {
			byDate[d.Date.Day()] = d
		}
	}

	if d := byDate[3]; !d.HasTasks || !d.HasPendingTasks {
		t.Errorf("June 3 = %+v, want tasks and pending", d)
	}
	if d := byDate[5]; !d.HasTasks || d.HasPendingTasks {
		t.Errorf("June 5 = %+v, want tasks but no pending", d)
	}
	if d := byDate[10]; d.HasTasks {
		t.Errorf("June 10 flagged with tasks")
	}
}

func TestMonthGridTodayAndSelected(t *testing.T) {
	now := day(2025, time.June, 10).Add(14 * time.Hour)
	selected := day(2025, time.June, 20)

	days := calendar.MonthGrid(day(2025, time.June, 1), nil, &selected, now)

	for _, d := range days {
		wantToday := d.IsCurrentMonth && d.Date.Day() == 10
		if d.IsToday != wantToday {
			t.Errorf("%v IsToday = %v", d.Date, d.IsToday)
		}
		wantSelected := d.IsCurrentMonth && d.Date.Day() == 20
		if d.IsSelected != wantSelected {
			t.Errorf("%v IsSelected = %v", d.Date, d.IsSelected)
		}
	}
}
