package domain

import "time"

const (
	// StaffURLPrefix is the path prefix of a single staff record page.
	StaffURLPrefix = "/catalog/staff/"
	// StaffListURL is the staff listing page.
	StaffListURL = "/catalog/staffs"

	StaffNameMinLength = 3
	StaffNameMaxLength = 100
)

// Staff models a staff record in the catalog.
type Staff struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// URL returns the canonical page of the record.
func (s Staff) URL() string {
	return StaffURLPrefix + s.ID
}
