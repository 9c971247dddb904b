package domain

// User is the authenticated identity as delivered by the backend.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Photo  string `json:"photo,omitempty"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == "active"
}
