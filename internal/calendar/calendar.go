package calendar

import (
	"time"

	"github.com/nhle/todoboard/internal/model"
)

// gridSize is the number of cells in a month view: six weeks of seven
// days, padded with the neighboring months.
const gridSize = 42

// Day is one cell of the month grid.
type Day struct {
	Date            time.Time
	IsCurrentMonth  bool
	HasTasks        bool
	HasPendingTasks bool
	IsToday         bool
	IsSelected      bool
}

// MonthGrid derives the 42-cell calendar grid for the month containing
// ref. Each cell is flagged with whether any of the user's todos fall
// on that day (by createdAt, compared on year/month/day only), whether
// any of those are still pending, and whether the cell matches today or
// the selected filter date.
func MonthGrid(ref time.Time, todos []model.Todo, selected *time.Time, now time.Time) []Day {
	year, month := ref.Year(), ref.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())

	// Walk back to the Sunday on or before the 1st.
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]Day, 0, gridSize)
	for i := 0; i < gridSize; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, Day{
			Date:            date,
			IsCurrentMonth:  date.Month() == month,
			HasTasks:        hasTasks(todos, date),
			HasPendingTasks: hasPendingTasks(todos, date),
			IsToday:         model.SameCalendarDay(date, now),
			IsSelected:      selected != nil && model.SameCalendarDay(date, *selected),
		})
	}
	return days
}

// hasTasks reports whether any todo falls on the given day.
func hasTasks(todos []model.Todo, date time.Time) bool {
	for _, t := range todos {
		if model.SameCalendarDay(t.CreatedAt, date) {
			return true
		}
	}
	return false
}

// hasPendingTasks reports whether any uncompleted todo falls on the
// given day.
func hasPendingTasks(todos []model.Todo, date time.Time) bool {
	for _, t := range todos {
		if !t.Completed && model.SameCalendarDay(t.CreatedAt, date) {
			return true
		}
	}
	return false
}
