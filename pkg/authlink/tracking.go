package authlink

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/serviceseeker/serviceseeker/pkg/user"
	"github.com/serviceseeker/serviceseeker/pkg/utils"
)

// TrackingService records sign-in telemetry on the user record. It is
// best-effort: a tracking failure is logged and swallowed, never failing
// or rolling back the sign-in itself.
type TrackingService struct {
	users UserStore
}

// NewTrackingService creates a new tracking service
func NewTrackingService(users UserStore) *TrackingService {
	return &TrackingService{
		users: users,
	}
}

// persist writes the mutated user. When the record changed underneath us
// (for example the confirmation latch was persisted moments earlier in
// the same sign-in), it refetches and reapplies the mutation once.
func (s *TrackingService) persist(ctx context.Context, u user.User, apply func(user.User) user.User) (user.User, error) {
	updated, err := s.users.UpdateUser(ctx, apply(u))
	if errors.Is(err, user.ErrUpdateConflict) {
		fresh, ferr := s.users.GetUser(ctx, u.ID)
		if ferr != nil {
			return user.User{}, ferr
		}
		return s.users.UpdateUser(ctx, apply(fresh))
	}
	return updated, err
}

// TrackLogin records a successful sign-in. For a local sign-in it also
// repairs the HasLocalPassword flag for users who set a password through
// a path that didn't update it. Call only after the sign-in succeeded.
func (s *TrackingService) TrackLogin(ctx context.Context, u user.User, isLocalLogin bool) user.User {
	apply := func(u user.User) user.User {
		now := time.Now().UTC()
		u.LastLoginAt = &now
		if isLocalLogin && !u.HasLocalPassword {
			u.HasLocalPassword = true
			if u.LocalPasswordAddedAt == nil {
				u.LocalPasswordAddedAt = &now
			}
		}
		return u
	}

	updated, err := s.persist(ctx, u, apply)
	if err != nil {
		slog.Error("Failed to track login", "email", utils.MaskEmail(u.Email), "err", err)
		return apply(u)
	}
	slog.Info("Login tracked", "email", utils.MaskEmail(u.Email), "local", isLocalLogin)
	return updated
}

// TrackPasswordSet records that the user now has a local password
func (s *TrackingService) TrackPasswordSet(ctx context.Context, u user.User) user.User {
	apply := func(u user.User) user.User {
		now := time.Now().UTC()
		u.HasLocalPassword = true
		u.LocalPasswordAddedAt = &now
		return u
	}

	updated, err := s.persist(ctx, u, apply)
	if err != nil {
		slog.Error("Failed to track password set", "email", utils.MaskEmail(u.Email), "err", err)
		return apply(u)
	}
	slog.Info("Password set tracked", "email", utils.MaskEmail(u.Email))
	return updated
}
