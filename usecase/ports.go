package usecase

import "github.com/taskgo/client/domain"

// SessionGuard is how the profile and task usecases read the current bearer
// token and hand session mutations back to the session manager, which is the
// sole owner of the Session value. The guard never replaces the token while a
// request using it is in flight; it only clears between requests.
type SessionGuard interface {
	// Token returns the current bearer token, or "" when logged out.
	Token() string
	// User returns a copy of the cached user record, or nil when logged out.
	User() *domain.User
	// UpdateUser reconciles a fresh user record into the owned session and
	// persists it. The token is left untouched.
	UpdateUser(user domain.User) error
	// Invalidate tears the session down locally: credentials cleared, state
	// LoggedOut. Called whenever an authenticated request comes back
	// unauthorized.
	Invalidate()
}
