// Package profile fetches and edits the authoritative user record and
// reconciles the result into the session owned by the session manager.
package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/apiclient"
	"github.com/taskgo/client/domain"
	"github.com/taskgo/client/usecase"
)

type UseCase struct {
	api    apiclient.Client
	guard  usecase.SessionGuard
	logger *zap.Logger
}

func New(api apiclient.Client, guard usecase.SessionGuard, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		api:    api,
		guard:  guard,
		logger: logger,
	}
}

// Fetch returns the authoritative user record, reconciling it into the cached
// session (fresh record wins). Read-through cache semantics: on a transient
// failure the cached user is returned as a degraded fallback so the profile
// screen can still render; with no cache the failure propagates as a
// session-invalid outcome and the caller must route to login.
func (uc *UseCase) Fetch(ctx context.Context) (*domain.User, error) {
	token := uc.guard.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}

	fresh, err := uc.api.CurrentUser(ctx, token)
	if err == nil {
		if saveErr := uc.guard.UpdateUser(*fresh); saveErr != nil {
			uc.logger.Warn("could not persist refreshed user", zap.Error(saveErr))
		}
		return fresh, nil
	}

	if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		uc.guard.Invalidate()
		return nil, domain.ErrSessionInvalid
	}

	if cached := uc.guard.User(); cached != nil {
		uc.logger.Warn("profile fetch failed, serving cached user", zap.Error(err))
		return cached, nil
	}

	uc.guard.Invalidate()
	return nil, domain.WrapError(domain.ErrCodeUnauthorized, "session could not be confirmed", err)
}

// Update submits a profile edit. The response's updated fields are merged
// shallowly into the cached user and persisted; a server rejection is
// surfaced verbatim.
func (uc *UseCase) Update(ctx context.Context, edit domain.ProfileEdit) (*domain.User, error) {
	if err := edit.Validate(); err != nil {
		return nil, err
	}
	token := uc.guard.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}

	req := transport.ProfileUpdateRequest{
		Name:  edit.Name,
		Email: edit.Email,
		Photo: edit.Photo,
	}
	if pc := edit.PasswordChange; pc != nil {
		req.CurrentPassword = pc.CurrentPassword
		req.NewPassword = pc.NewPassword
	}

	patch, err := uc.api.UpdateProfile(ctx, token, req)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			uc.guard.Invalidate()
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}

	merged := uc.guard.User()
	if merged == nil {
		merged = &domain.User{}
	}
	patch.ApplyTo(merged)
	if saveErr := uc.guard.UpdateUser(*merged); saveErr != nil {
		uc.logger.Warn("could not persist updated user", zap.Error(saveErr))
	}
	return merged, nil
}
