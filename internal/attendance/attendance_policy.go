package attendance

import "time"

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"

	DefaultLateCutoff = 9 * time.Hour
)

// Policy holds the classification rules of the ledger. A check-in whose
// local time of day is strictly after LateCutoff is late.
type Policy struct {
	LateCutoff time.Duration
	Location   *time.Location
}

func DefaultPolicy() Policy {
	return Policy{LateCutoff: DefaultLateCutoff, Location: time.Local}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// Classify returns late or present for a check-in at t, at second precision.
func (p Policy) Classify(t time.Time) string {
	local := t.In(p.loc())
	sinceMidnight := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
	if sinceMidnight > p.LateCutoff {
		return StatusLate
	}
	return StatusPresent
}

// Today returns the local calendar date of now.
func (p Policy) Today(now time.Time) time.Time {
	return CivilDate(now.In(p.loc()))
}

// CivilDate drops the clock and zone of t, keeping its calendar date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns the first and last calendar day of the month.
func MonthWindow(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DaysInMonth returns the number of calendar days in the month.
func DaysInMonth(year int, month time.Month) int {
	_, last := MonthWindow(year, month)
	return last.Day()
}

// FormatClock renders t as HH:MM:SS in the policy zone.
func (p Policy) FormatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.In(p.loc()).Format(ClockLayout)
	return &v
}
