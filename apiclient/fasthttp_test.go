package apiclient

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/domain"
	"github.com/taskgo/client/internal/stubapi"
)

// startStub runs the stub backend on an in-memory listener and returns a
// client dialing into it.
func startStub(t *testing.T) (*HTTPClient, *stubapi.Server) {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	stub := stubapi.NewServer("test-secret", nil)
	srv := &fasthttp.Server{Handler: stub.Handler()}

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	client := NewHTTP(Config{
		BaseURL: "http://stub",
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}, nil)
	t.Cleanup(func() { _ = client.Close() })
	return client, stub
}

func seedUser(t *testing.T, stub *stubapi.Server) domain.User {
	t.Helper()
	user, ok := stub.Store().CreateUser("Ana", "a@b.com", "secret1", "")
	require.True(t, ok)
	return user
}

func login(t *testing.T, client *HTTPClient) *domain.Session {
	t.Helper()
	sess, err := client.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	return sess
}

func TestLoginSuccess(t *testing.T) {
	client, stub := startStub(t)
	seeded := seedUser(t, stub)

	sess := login(t, client)
	require.Equal(t, seeded.ID, sess.User.ID)
	require.Equal(t, "Ana", sess.User.Name)
	require.Equal(t, "a@b.com", sess.User.Email)
}

func TestLoginWrongPasswordIsRejection(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))
	require.Contains(t, err.Error(), "These credentials do not match our records.")
}

func TestRegisterReturnsUserWithoutToken(t *testing.T) {
	client, _ := startStub(t)

	user, err := client.Register(context.Background(), transport.RegisterRequest{
		Name:     "Bo",
		Email:    "bo@b.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "user", user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)

	_, err := client.Register(context.Background(), transport.RegisterRequest{
		Name:     "Other",
		Email:    "a@b.com",
		Password: "secret1",
	})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))
	require.Contains(t, err.Error(), "already been taken")
}

func TestCurrentUserWithBadTokenIsSessionInvalid(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)

	_, err := client.CurrentUser(context.Background(), "garbage")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestTaskLifecycle(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)
	sess := login(t, client)
	ctx := context.Background()

	_, err := client.CreateTask(ctx, sess.Token, transport.TaskCreateRequest{
		Title:    "Buy milk",
		Priority: domain.PriorityLow,
		DueDate:  "2024-05-01",
	})
	require.NoError(t, err)

	tasks, err := client.ListTasks(ctx, sess.Token)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotZero(t, tasks[0].ID)
	require.Equal(t, "Buy milk", tasks[0].Title)
	require.Equal(t, domain.PriorityLow, tasks[0].Priority)
	require.Equal(t, "2024-05-01", tasks[0].DueDate)
	require.False(t, tasks[0].Completed)

	done := true
	_, err = client.UpdateTask(ctx, sess.Token, tasks[0].ID, transport.TaskUpdateRequest{Completed: &done})
	require.NoError(t, err)

	tasks, err = client.ListTasks(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, tasks[0].Completed)
	require.Equal(t, "Buy milk", tasks[0].Title)

	require.NoError(t, client.DeleteTask(ctx, sess.Token, tasks[0].ID))

	tasks, err = client.ListTasks(ctx, sess.Token)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestDeleteMissingTaskIsRejection(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)
	sess := login(t, client)

	err := client.DeleteTask(context.Background(), sess.Token, 999)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))
	require.Contains(t, err.Error(), "Todo not found.")
}

func TestLogoutRevokesToken(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)
	sess := login(t, client)
	ctx := context.Background()

	require.NoError(t, client.Logout(ctx, sess.Token))

	_, err := client.ListTasks(ctx, sess.Token)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestUpdateProfile(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)
	sess := login(t, client)
	ctx := context.Background()

	patch, err := client.UpdateProfile(ctx, sess.Token, transport.ProfileUpdateRequest{
		Name:  "Ana Maria",
		Email: "a@b.com",
	})
	require.NoError(t, err)
	require.NotNil(t, patch.Name)
	require.Equal(t, "Ana Maria", *patch.Name)

	t.Run("wrong current password", func(t *testing.T) {
		_, err := client.UpdateProfile(ctx, sess.Token, transport.ProfileUpdateRequest{
			Name:            "Ana Maria",
			Email:           "a@b.com",
			CurrentPassword: "nope",
			NewPassword:     "secret2",
		})
		require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))
		require.Contains(t, err.Error(), "current password is incorrect")
	})

	t.Run("password change applies", func(t *testing.T) {
		_, err := client.UpdateProfile(ctx, sess.Token, transport.ProfileUpdateRequest{
			Name:            "Ana Maria",
			Email:           "a@b.com",
			CurrentPassword: "secret1",
			NewPassword:     "secret2",
		})
		require.NoError(t, err)

		_, err = client.Login(ctx, "a@b.com", "secret2")
		require.NoError(t, err)
	})
}

func TestForgotPassword(t *testing.T) {
	client, stub := startStub(t)
	seedUser(t, stub)
	ctx := context.Background()

	msg, err := client.ForgotPassword(ctx, " a@b.com ")
	require.NoError(t, err)
	require.NotEmpty(t, msg)

	_, err = client.ForgotPassword(ctx, "nobody@b.com")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))
}

func TestFieldErrorsJoined(t *testing.T) {
	client, _ := startStub(t)

	_, err := client.Register(context.Background(), transport.RegisterRequest{})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeRejected))

	var dErr *domain.Error
	require.True(t, errors.As(err, &dErr))
	require.Contains(t, dErr.Message, "The name field is required.")
	require.Contains(t, dErr.Message, "The email field is required.")
	require.Contains(t, dErr.Message, "The password must be at least 6 characters.")
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	client := NewHTTP(Config{
		BaseURL: "http://stub",
		Dial: func(addr string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		},
	}, nil)
	t.Cleanup(func() { _ = client.Close() })

	_, err := client.Login(context.Background(), "a@b.com", "secret1")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
}

func TestPing(t *testing.T) {
	client, _ := startStub(t)
	require.NoError(t, client.Ping(context.Background()))
}
