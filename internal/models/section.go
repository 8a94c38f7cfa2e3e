package models

// Section is one weekly offering of a subject. The registry is maintained by
// catalog management and read-only here.
type Section struct {
	ID            string  `db:"id" json:"id"`
	SubjectID     string  `db:"subject_id" json:"subject_id"`
	SectionNumber int     `db:"section_number" json:"section_number"`
	Weekday       *string `db:"weekday" json:"weekday,omitempty"`
	StartsAt      string  `db:"starts_at" json:"starts_at"`
	EndsAt        string  `db:"ends_at" json:"ends_at"`
	Venue         string  `db:"venue" json:"venue"`
	Capacity      int     `db:"capacity" json:"capacity"`
}

// MeetsOn reports whether the section's nominal weekday matches the given
// named day. Sections with no weekday never meet.
func (s *Section) MeetsOn(weekday string) bool {
	return s.Weekday != nil && *s.Weekday == weekday
}
