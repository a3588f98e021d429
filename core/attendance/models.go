package attendance

import (
	"errors"
	"time"
)

// Status is a recorded attendance state. The set is exhaustive: there is no
// "unknown" member — a student with no Record for a date is "not recorded",
// which is a different thing from any Status value.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

var ErrUnknownStatus = errors.New("unknown attendance status")

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// DateLayout is the wire and storage format for attendance dates.
// Dates are day-granular; no time component ever survives normalization.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// NormalizeDate drops any time component, pinning the date to UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Record is one student's recorded status for one class on one calendar date.
// At most one Record exists per (ClassID, Date, StudentID) at any time; the
// ledger's save operation replaces whole class+date sets, it never appends.
type Record struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	ClassID    string    `json:"class_id"`
	StudentID  string    `json:"student_id"`
	Status     Status    `json:"status"`
	MarkedByID string    `json:"marked_by_id"`
	MarkedAt   time.Time `json:"marked_at"` // UTC; shared by all records of one save
}
