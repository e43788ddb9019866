package realtime

import "time"

// Daily tracks which calendar day a room's content belongs to, in a fixed
// location. The room composes it and reloads its content when Due reports a
// new day.
type Daily struct {
	Location *time.Location
	Day      time.Time
}

// NewDaily starts a schedule on the day containing now.
func NewDaily(now time.Time, loc *time.Location) Daily {
	if loc == nil {
		loc = time.Local
	}
	return Daily{Location: loc, Day: startOfDay(now, loc)}
}

// NextWake returns the next midnight after the tracked day.
func (d Daily) NextWake() time.Time {
	return d.Day.AddDate(0, 0, 1)
}

// Due reports whether now falls on a later day than the tracked one.
func (d Daily) Due(now time.Time) bool {
	return !now.In(d.loc()).Before(d.NextWake())
}

// Advance moves the schedule to the day containing now.
func (d *Daily) Advance(now time.Time) {
	d.Day = startOfDay(now, d.loc())
}

func (d Daily) loc() *time.Location {
	if d.Location == nil {
		return time.Local
	}
	return d.Location
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
