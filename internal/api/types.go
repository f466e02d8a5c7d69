package api

import "time"

// Role is a user's access level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleClinician Role = "clinician"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Patient struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth string    `json:"dateOfBirth"`
	Gender      string    `json:"gender,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CenterID    string    `json:"centerId,omitempty"`
	CenterName  string    `json:"centerName,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (p Patient) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Center struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PatientCount int       `json:"patientCount"`
	TeamCount    int       `json:"teamCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CenterID    string    `json:"centerId,omitempty"`
	CenterName  string    `json:"centerName,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Page is one server-side page of items.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
	PageCount  int `json:"pageCount"`
}

// PageQuery selects a server-side page. Page is 1-based on the wire.
type PageQuery struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
	Desc     bool
	CenterID string
}
