package authlink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// ConfirmationService decides whether a user's account counts as
// confirmed. External identity providers are trusted to have verified the
// account already; local-primary users must confirm their email once.
type ConfirmationService struct {
	credentials CredentialStore
	users       UserStore
}

// NewConfirmationService creates a new confirmation service
func NewConfirmationService(credentials CredentialStore, users UserStore) *ConfirmationService {
	return &ConfirmationService{
		credentials: credentials,
		users:       users,
	}
}

// IsConfirmed reports whether the user may be treated as confirmed.
//
// The first time a local-primary user's email is seen confirmed, the
// InitialEmailConfirmed latch is set and persisted. The latch is
// monotonic: once true it is never re-evaluated or unset. On any store
// error the check fails closed and the error is returned for logging.
func (s *ConfirmationService) IsConfirmed(ctx context.Context, u user.User) (bool, error) {
	if u.IsExternalPrimary() {
		slog.Debug("User confirmed via external primary auth", "userId", u.ID, "method", u.PrimaryAuthMethod)
		return true, nil
	}
	if u.InitialEmailConfirmed {
		// latch already set, never re-evaluated
		return true, nil
	}

	confirmed, err := s.credentials.IsEmailConfirmed(ctx, u.ID)
	if err != nil {
		slog.Error("Error checking confirmation", "userId", u.ID, "err", err)
		return false, err
	}
	if !confirmed {
		slog.Debug("User requires email confirmation for local auth", "userId", u.ID)
		return false, nil
	}

	u.InitialEmailConfirmed = true
	_, err = s.users.UpdateUser(ctx, u)
	if errors.Is(err, user.ErrUpdateConflict) {
		// the record moved underneath us; reapply the latch on a fresh copy
		fresh, ferr := s.users.GetUser(ctx, u.ID)
		if ferr == nil {
			fresh.InitialEmailConfirmed = true
			_, err = s.users.UpdateUser(ctx, fresh)
		} else {
			err = ferr
		}
	}
	if err != nil {
		slog.Error("Failed to persist confirmation latch", "userId", u.ID, "err", err)
		return false, err
	}
	slog.Info("Marked initial email confirmation complete", "userId", u.ID)
	return true, nil
}
