package dto

// StaffForm is the body of the create and update forms.
type StaffForm struct {
	Name string `form:"name"`
}
