package core

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamp is the canonical timestamp representation for domain artifacts
type Timestamp time.Time

// Now returns the current time as a Timestamp
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time converts back to time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// MarshalJSON encodes as RFC 3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

// UnmarshalJSON decodes from RFC 3339
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tt time.Time
	if err := tt.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tt)
	return nil
}

// Value implements driver.Valuer for database storage
func (t Timestamp) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(src interface{}) error {
	tt, ok := src.(time.Time)
	if !ok {
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	*t = Timestamp(tt)
	return nil
}
