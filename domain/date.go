package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts a bare YYYY-MM-DD date or an ISO date-time and keeps only
// the date part as written, dropping any time and zone suffix.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, "Tt "); i >= 0 {
		value = value[:i]
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, WrapError(ErrInvalidDate.Code, ErrInvalidDate.Message, err)
	}
	return DateOf(t), nil
}

// NormalizeDate turns raw input into a *Date. Blank input yields nil.
func NormalizeDate(value string) (*Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return WrapError(ErrInvalidDate.Code, ErrInvalidDate.Message, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
