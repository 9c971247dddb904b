package domain

import (
	"strings"
	"time"
)

// Priority levels accepted by the backend.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DueDateLayout is the wire format for task due dates.
const DueDateLayout = "2006-01-02"

// Task is a user-owned activity item. The id is assigned by the server and
// never set or changed locally.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	Completed   bool   `json:"completed"`
}

// TaskDraft carries the user-provided fields for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// Validate trims and checks the draft, applying the medium-priority default.
// It never touches the network.
func (d *TaskDraft) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return Validation("title is required")
	}
	d.Description = strings.TrimSpace(d.Description)
	p, err := normalizePriority(d.Priority)
	if err != nil {
		return err
	}
	d.Priority = p
	if d.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, d.DueDate); err != nil {
			return Validation("due date must be YYYY-MM-DD")
		}
	}
	return nil
}

// TaskPatch describes a partial update. Nil fields are left untouched
// server-side, which is what makes the completed-only toggle possible.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *string
	Completed   *bool
}

// Validate checks only the fields present in the patch.
func (p *TaskPatch) Validate() error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return Validation("title is required")
		}
		p.Title = &t
	}
	if p.Priority != nil {
		norm, err := normalizePriority(*p.Priority)
		if err != nil {
			return err
		}
		p.Priority = &norm
	}
	if p.DueDate != nil && *p.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, *p.DueDate); err != nil {
			return Validation("due date must be YYYY-MM-DD")
		}
	}
	return nil
}

func normalizePriority(p string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "":
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", Validation("priority must be low, medium or high")
	}
}
