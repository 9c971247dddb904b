// Package session owns the authentication state machine: login, registration,
// logout, password reset and the startup session check. All other readers of
// the session go through this package's accessors.
package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/apiclient"
	"github.com/taskgo/client/domain"
	"github.com/taskgo/client/repository"
)

// State of the authentication machine.
type State string

const (
	StateLoggedOut      State = "logged_out"
	StateAuthenticating State = "authenticating"
	StateLoggedIn       State = "logged_in"
)

// UseCase is the session manager. It is the exclusive owner of the Session
// value; the credential store is written only from here.
type UseCase struct {
	api    apiclient.Client
	creds  repository.CredentialStore
	logger *zap.Logger

	mu      sync.RWMutex
	state   State
	current *domain.Session
}

func New(api apiclient.Client, creds repository.CredentialStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		api:    api,
		creds:  creds,
		logger: logger,
		state:  StateLoggedOut,
	}
}

// Login authenticates against the server. On success the returned session is
// persisted and the state becomes LoggedIn.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}

	uc.setState(StateAuthenticating)

	sess, err := uc.api.Login(ctx, email, password)
	if err != nil {
		uc.setState(StateLoggedOut)
		return nil, err
	}

	if err := uc.creds.Save(sess); err != nil {
		uc.setState(StateLoggedOut)
		return nil, domain.WrapError(domain.ErrCodeInternal, "persist session", err)
	}

	uc.mu.Lock()
	uc.current = sess
	uc.state = StateLoggedIn
	uc.mu.Unlock()

	uc.logger.Info("logged in", zap.Int64("user_id", sess.User.ID))
	user := sess.User
	return &user, nil
}

// Register creates an account. The backend returns the created user but no
// token, so the client stores the user record only and stays LoggedOut; an
// explicit Login must follow.
func (uc *UseCase) Register(ctx context.Context, name, email, password, photo string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.Validation("name, email and password are required")
	}
	if len(password) < domain.MinPasswordLen {
		return nil, domain.Validation("password must be at least 6 characters")
	}

	user, err := uc.api.Register(ctx, transport.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Photo:    photo,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.creds.SaveUser(user); err != nil {
		uc.logger.Warn("could not cache registered user", zap.Error(err))
	}
	return user, nil
}

// RequestPasswordReset asks the server to deliver a new credential
// out-of-band. No local password state changes.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.Validation("email is required")
	}
	return uc.api.ForgotPassword(ctx, email)
}

// Restore is the startup check: if a persisted session exists, its token is
// validated with a single round trip against the current-user endpoint. Any
// failure clears the store and leaves the machine LoggedOut. A (nil, nil)
// return means no session was persisted.
func (uc *UseCase) Restore(ctx context.Context) (*domain.User, error) {
	sess, err := uc.creds.Load()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "load persisted session", err)
	}
	if sess == nil {
		return nil, nil
	}

	fresh, err := uc.api.CurrentUser(ctx, sess.Token)
	if err != nil {
		uc.logger.Info("persisted session rejected, clearing", zap.Error(err))
		uc.Invalidate()
		return nil, err
	}

	sess.User = *fresh
	if err := uc.creds.Save(sess); err != nil {
		uc.logger.Warn("could not refresh persisted user", zap.Error(err))
	}

	uc.mu.Lock()
	uc.current = sess
	uc.state = StateLoggedIn
	uc.mu.Unlock()

	return fresh, nil
}

// Logout notifies the server best-effort and then unconditionally clears
// local state. A failed server notification is logged, never surfaced.
func (uc *UseCase) Logout(ctx context.Context) error {
	token := uc.Token()
	if token != "" {
		if err := uc.api.Logout(ctx, token); err != nil {
			uc.logger.Warn("server logout failed", zap.Error(err))
		}
	}
	uc.Invalidate()
	return nil
}

// Invalidate tears the session down locally. It is the shared reaction to an
// unauthorized response from any authenticated operation.
func (uc *UseCase) Invalidate() {
	if err := uc.creds.Clear(); err != nil {
		uc.logger.Error("could not clear credential store", zap.Error(err))
	}
	uc.mu.Lock()
	uc.current = nil
	uc.state = StateLoggedOut
	uc.mu.Unlock()
}

// UpdateUser reconciles a fresh user record into the owned session and
// persists the pair. No-op when logged out.
func (uc *UseCase) UpdateUser(user domain.User) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.current == nil {
		return domain.ErrNoSession
	}
	uc.current.User = user
	return uc.creds.Save(uc.current)
}

// Token returns the current bearer token, or "" when logged out.
func (uc *UseCase) Token() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.current == nil {
		return ""
	}
	return uc.current.Token
}

// User returns a copy of the cached user record, or nil when logged out.
func (uc *UseCase) User() *domain.User {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.current == nil {
		return nil
	}
	user := uc.current.User
	return &user
}

// State reports the machine's current state.
func (uc *UseCase) State() State {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

func (uc *UseCase) setState(s State) {
	uc.mu.Lock()
	uc.state = s
	uc.mu.Unlock()
}
