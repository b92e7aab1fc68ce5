package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the wire and storage format for transaction dates.
const DateFormat = "2006-01-02"

// Date is a calendar date without a time component. It marshals to
// "YYYY-MM-DD" in JSON and is stored as TEXT in sqlite.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateFormat)
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateFormat) + `"`), nil
}

// UnmarshalJSON accepts a quoted "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as its "YYYY-MM-DD" string.
func (d Date) Value() (driver.Value, error) {
	return d.Format(DateFormat), nil
}

// Scan reads a date from TEXT or a driver-parsed time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
