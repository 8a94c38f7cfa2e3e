package models

import "time"

// SessionBoundary discriminates which edge of a session window a lecturer is
// recording.
type SessionBoundary string

const (
	BoundaryStart SessionBoundary = "start"
	BoundaryEnd   SessionBoundary = "end"
)

// Valid returns true for a supported boundary value.
func (b SessionBoundary) Valid() bool {
	return b == BoundaryStart || b == BoundaryEnd
}

// SessionLog records the actual open window of one section on one calendar
// day, overriding the nominal schedule. At most one log exists per
// (section, day); the unique key lives on the table.
type SessionLog struct {
	ID         string    `db:"id" json:"id"`
	SectionID  string    `db:"section_id" json:"section_id"`
	CreatedFor time.Time `db:"created_for" json:"created_for"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	StartedBy  *string   `db:"started_by" json:"started_by,omitempty"`
	UpdatedBy  *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SystemAuthored reports whether the log was created by the sweep rather
// than a lecturer. Only system-authored logs may be refreshed from the
// nominal schedule.
func (l *SessionLog) SystemAuthored() bool {
	return l.StartedBy == nil
}

// Contains reports whether the instant falls inside the session window.
func (l *SessionLog) Contains(t time.Time) bool {
	return !t.Before(l.StartTime) && !t.After(l.EndTime)
}
