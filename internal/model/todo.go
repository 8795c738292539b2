package model

import (
	"strings"
	"time"
)

// Todo section constants. A todo's section is the coarse lifecycle
// bucket shown in the UI and must always agree with Completed.
const (
	SectionPending   = "pending"
	SectionCompleted = "completed"
)

// Todo is a single task item owned by exactly one user.
type Todo struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	Section     string    `json:"section" db:"section"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// SectionFor returns the section implied by a completed flag.
func SectionFor(completed bool) string {
	if completed {
		return SectionCompleted
	}
	return SectionPending
}

// InSection reports whether the todo belongs to the given section,
// falling back to the Completed flag for records written before the
// section column existed.
func (t Todo) InSection(section string) bool {
	if t.Section != "" {
		return t.Section == section
	}
	return SectionFor(t.Completed) == section
}

// IsPlaceholder reports whether the todo carries a transient client-side
// ID that has not yet been confirmed by the server.
func (t Todo) IsPlaceholder() bool {
	return strings.HasPrefix(t.ID, "temp-")
}

// SameCalendarDay reports whether two instants fall on the same
// year/month/day, ignoring time of day.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
