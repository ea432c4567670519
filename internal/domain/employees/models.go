package employees

import "time"

type Employee struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	HireDate       time.Time  `json:"hireDate"`
	FaceDescriptor []float64  `json:"-"`
	FaceEnrolledAt *time.Time `json:"faceEnrolledAt,omitempty"`
	MFAEnabled     bool       `json:"mfaEnabled"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (e Employee) DisplayName() string {
	return e.FirstName + " " + e.LastName
}
