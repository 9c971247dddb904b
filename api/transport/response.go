package transport

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/taskgo/client/domain"
)

// Message tolerates the backend's two message shapes: a plain string or an
// array of strings, which is flattened with newlines for display.
type Message string

func (m *Message) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = Message(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*m = Message(strings.Join(list, "\n"))
	return nil
}

func (m Message) String() string { return string(m) }

// LoginResponse is the success body of POST /api/login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// RegisterResponse is the success body of POST /api/register. By contract it
// carries no token; registration never logs the user in.
type RegisterResponse struct {
	User domain.User `json:"user"`
}

// TodosResponse is the success body of GET /api/todos.
type TodosResponse struct {
	Todos []domain.Task `json:"todos"`
}

// MessageResponse is the success body of the task mutations, logout and
// forgot-password.
type MessageResponse struct {
	Message Message `json:"message"`
}

// UserPatch is the partial user record returned by PUT /api/user/update.
// Only fields present in the response override the cached copy.
type UserPatch struct {
	ID     *int64  `json:"id,omitempty"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Photo  *string `json:"photo,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ApplyTo merges the patch into u, shallow-merge semantics: present fields
// win, absent fields keep their cached value.
func (p *UserPatch) ApplyTo(u *domain.User) {
	if p == nil || u == nil {
		return
	}
	if p.ID != nil {
		u.ID = *p.ID
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Photo != nil {
		u.Photo = *p.Photo
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}

// ProfileUpdateResponse is the success body of PUT /api/user/update.
type ProfileUpdateResponse struct {
	User    *UserPatch `json:"user"`
	Message Message    `json:"message,omitempty"`
}

// ErrorBody is the failure shape shared by every endpoint: either a map of
// field-level validation errors or a single message.
type ErrorBody struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message Message             `json:"message,omitempty"`
}

// JoinedText flattens field errors (sorted by field for stable output) or
// falls back to the message, one line per error.
func (b *ErrorBody) JoinedText() string {
	if b == nil {
		return ""
	}
	if len(b.Errors) > 0 {
		fields := make([]string, 0, len(b.Errors))
		for field := range b.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		var lines []string
		for _, field := range fields {
			lines = append(lines, b.Errors[field]...)
		}
		return strings.Join(lines, "\n")
	}
	return b.Message.String()
}
