// Package apiclient talks to the remote task service. It owns the HTTP/JSON
// boundary: request encoding, response decoding into domain entities, and the
// mapping of failures onto the domain error taxonomy. Nothing above this
// package sees a status code or a raw body.
package apiclient

import (
	"context"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/domain"
)

// Client is the remote service contract the usecases depend on.
//
// Error classification:
//   - transport failure or malformed body -> TRANSPORT
//   - request processed but declined      -> REJECTED, carrying the server text
//   - 401 on an authenticated endpoint    -> UNAUTHORIZED (domain.ErrSessionInvalid)
//
// No method retries; each call is a single round trip.
type Client interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, req transport.RegisterRequest) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)

	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, req transport.ProfileUpdateRequest) (*transport.UserPatch, error)
	Logout(ctx context.Context, token string) error

	ListTasks(ctx context.Context, token string) ([]domain.Task, error)
	CreateTask(ctx context.Context, token string, req transport.TaskCreateRequest) (string, error)
	UpdateTask(ctx context.Context, token string, id int64, req transport.TaskUpdateRequest) (string, error)
	DeleteTask(ctx context.Context, token string, id int64) error

	Ping(ctx context.Context) error
	Close() error
}
