package utils

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// DateOf truncates an instant to its UTC calendar day. All session and
// summary bucketing runs through here so a device timestamp near midnight
// lands on exactly one day regardless of server locale.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a bucketed day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// CombineDateTime puts an HH:MM:SS clock value onto a calendar day.
func CombineDateTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, clock, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	d := DateOf(date)
	return d.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second), nil
}
