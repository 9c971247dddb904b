// Package clienttest provides a configurable apiclient.Client double for
// usecase tests. Every method records its call and arguments so tests can
// assert that an operation was (or was not) dispatched.
package clienttest

import (
	"context"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/domain"
)

// Fake implements apiclient.Client with canned results.
type Fake struct {
	Calls []string

	LoginSession *domain.Session
	LoginErr     error
	LastLogin    transport.LoginRequest

	RegisterUser *domain.User
	RegisterErr  error
	LastRegister transport.RegisterRequest

	ForgotMsg string
	ForgotErr error

	CurrentUserRet *domain.User
	CurrentUserErr error

	UpdatePatch     *transport.UserPatch
	UpdateErr       error
	LastProfileReq  transport.ProfileUpdateRequest

	LogoutErr error

	// ListFn, when set, wins over ListRet; it lets a test change the
	// server's answer between refreshes.
	ListFn  func() ([]domain.Task, error)
	ListRet []domain.Task
	ListErr error

	CreateMsg     string
	CreateErr     error
	LastCreateReq transport.TaskCreateRequest

	UpdateTaskMsg string
	UpdateTaskErr error
	LastTaskID    int64
	LastTaskReq   transport.TaskUpdateRequest

	DeleteErr error

	PingErr error

	LastToken string
}

func (f *Fake) record(name, token string) {
	f.Calls = append(f.Calls, name)
	if token != "" {
		f.LastToken = token
	}
}

// CallCount returns how many times the named method was invoked.
func (f *Fake) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	f.record("login", "")
	f.LastLogin = transport.LoginRequest{Email: email, Password: password}
	return f.LoginSession, f.LoginErr
}

func (f *Fake) Register(ctx context.Context, req transport.RegisterRequest) (*domain.User, error) {
	f.record("register", "")
	f.LastRegister = req
	return f.RegisterUser, f.RegisterErr
}

func (f *Fake) ForgotPassword(ctx context.Context, email string) (string, error) {
	f.record("forgot", "")
	return f.ForgotMsg, f.ForgotErr
}

func (f *Fake) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	f.record("current_user", token)
	return f.CurrentUserRet, f.CurrentUserErr
}

func (f *Fake) UpdateProfile(ctx context.Context, token string, req transport.ProfileUpdateRequest) (*transport.UserPatch, error) {
	f.record("update_profile", token)
	f.LastProfileReq = req
	return f.UpdatePatch, f.UpdateErr
}

func (f *Fake) Logout(ctx context.Context, token string) error {
	f.record("logout", token)
	return f.LogoutErr
}

func (f *Fake) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	f.record("list", token)
	if f.ListFn != nil {
		return f.ListFn()
	}
	return f.ListRet, f.ListErr
}

func (f *Fake) CreateTask(ctx context.Context, token string, req transport.TaskCreateRequest) (string, error) {
	f.record("create", token)
	f.LastCreateReq = req
	return f.CreateMsg, f.CreateErr
}

func (f *Fake) UpdateTask(ctx context.Context, token string, id int64, req transport.TaskUpdateRequest) (string, error) {
	f.record("update", token)
	f.LastTaskID = id
	f.LastTaskReq = req
	return f.UpdateTaskMsg, f.UpdateTaskErr
}

func (f *Fake) DeleteTask(ctx context.Context, token string, id int64) error {
	f.record("delete", token)
	f.LastTaskID = id
	return f.DeleteErr
}

func (f *Fake) Ping(ctx context.Context) error {
	f.record("ping", "")
	return f.PingErr
}

func (f *Fake) Close() error { return nil }
