package calendar

import "time"

// GridCells is the fixed number of cells in a month grid: six Monday-first weeks.
const GridCells = 42

// Cell is a single day rendered in a month grid.
type Cell struct {
	Date    Date
	InMonth bool
	IsToday bool
}

// Grid is the six week view of a reference month.
type Grid struct {
	Year  int
	Month time.Month
	First Date
	Last  Date
	Cells [GridCells]Cell
}

// MondayOffset returns how many days d sits after the Monday of its week (0..6).
func MondayOffset(d Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// MonthGrid lays out the month containing reference as 42 cells starting on the
// Monday on or before the first of the month. Cells outside the month are
// flagged as such and the cell equal to today carries IsToday.
func MonthGrid(reference, today Date) Grid {
	first := reference.FirstOfMonth()
	start := first.AddDays(-MondayOffset(first))

	grid := Grid{
		Year:  first.Year,
		Month: first.Month,
		First: first,
		Last:  first.LastOfMonth(),
	}
	for i := range grid.Cells {
		day := start.AddDays(i)
		grid.Cells[i] = Cell{
			Date:    day,
			InMonth: day.SameMonth(first),
			IsToday: day == today,
		}
	}
	return grid
}

// Calendar resolves "today" in a fixed location so derived views do not depend
// on the host's locale settings.
type Calendar struct {
	location *time.Location
	now      func() time.Time
}

// New constructs a Calendar. A nil location means UTC and a nil now means time.Now.
func New(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{location: loc, now: now}
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	if c == nil || c.location == nil {
		return time.UTC
	}
	return c.location
}

// Today returns the current civil day in the calendar's location.
func (c *Calendar) Today() Date {
	if c == nil {
		return DateOf(time.Now().UTC())
	}
	return DateOf(c.now().In(c.Location()))
}

// MonthGrid builds the grid for reference using the calendar's notion of today.
func (c *Calendar) MonthGrid(reference Date) Grid {
	return MonthGrid(reference, c.Today())
}
