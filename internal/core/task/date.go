package task

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a calendar date without a time zone. The zero value means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Format renders d as dd/mm/yyyy, the board's display format.
func (d Date) Format() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is an hour:minute wall-clock time. The zero value means "no time";
// midnight is represented with Set=true.
type TimeOfDay struct {
	Hour   int
	Minute int
	Set    bool
}

// ParseTimeOfDay parses a 24-hour HH:mm string. An empty string yields the
// zero TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if s == "" {
		return TimeOfDay{}, nil
	}

	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Set: true}, nil
}

// IsZero reports whether tod is unset.
func (tod TimeOfDay) IsZero() bool {
	return !tod.Set
}

func (tod TimeOfDay) String() string {
	if tod.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

func (tod TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(tod.String()), nil
}

func (tod *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*tod = parsed
	return nil
}
