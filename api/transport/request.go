package transport

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/register. Photo is an opaque URI
// picked client-side; the backend stores it as-is.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Photo    string `json:"photo,omitempty"`
}

// ForgotPasswordRequest is the body of POST /api/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ProfileUpdateRequest is the body of PUT /api/user/update. The password pair
// is present only when the user elected to change it.
type ProfileUpdateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Photo           string `json:"photo,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// TaskCreateRequest is the body of POST /api/todos.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
}

// TaskUpdateRequest is the body of PUT /api/todos/{id}. Nil fields are omitted
// so a completed-only toggle sends exactly {"completed": <bool>}.
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
