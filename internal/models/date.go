package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date is a point in time that accepts both RFC 3339 timestamps and bare
// "2006-01-02" dates on the wire. Experience and education entries are
// submitted by date pickers that send either form.
type Date struct {
	time.Time
}

const dateOnly = "2006-01-02"

// NewDate wraps t in a Date.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON parses either an RFC 3339 timestamp or a bare date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON emits RFC 3339, matching the rest of the API's timestamps.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

// Value implements driver.Valuer so GORM stores the underlying time.
func (d Date) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case string:
		return d.parseString(v)
	case []byte:
		return d.parseString(string(v))
	default:
		return fmt.Errorf("unsupported type %T for Date", src)
	}
}

func (d *Date) parseString(s string) error {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", dateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into Date", s)
}
