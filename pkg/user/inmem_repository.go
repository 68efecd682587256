package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository implements UserRepository using in-memory storage
type InMemoryUserRepository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]User
	history  map[uuid.UUID][]AuthHistoryRecord
	profiles map[uuid.UUID]EndUserProfile
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:    make(map[uuid.UUID]User),
		history:  make(map[uuid.UUID][]AuthHistoryRecord),
		profiles: make(map[uuid.UUID]EndUserProfile),
	}
}

// GetUser retrieves a user by ID
func (r *InMemoryUserRepository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitive
func (r *InMemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// CreateUser creates a new user
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, params.Email) {
			return User{}, ErrEmailExists
		}
	}

	now := time.Now().UTC()
	u := User{
		ID:                uuid.New(),
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		CreatedAt:         now,
		IsActive:          true,
		UserType:          params.UserType,
		PrimaryAuthMethod: params.PrimaryAuthMethod,
		PrimaryAuthSetAt:  now,
	}
	r.users[u.ID] = u
	return u, nil
}

// UpdateUser persists the mutable state of an existing user
func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	if u.Version != existing.Version {
		return User{}, ErrUpdateConflict
	}
	// the confirmation latch never reverts
	u.InitialEmailConfirmed = u.InitialEmailConfirmed || existing.InitialEmailConfirmed
	u.Version++
	r.users[u.ID] = u
	return u, nil
}

// AddAuthHistory appends an auth history record for a user
func (r *InMemoryUserRepository) AddAuthHistory(ctx context.Context, rec AuthHistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.AddedAt.IsZero() {
		rec.AddedAt = time.Now().UTC()
	}
	rec.Active = true
	r.history[rec.UserID] = append(r.history[rec.UserID], rec)
	return nil
}

// CloseAuthHistory marks the active history record for a method as removed
func (r *InMemoryUserRepository) CloseAuthHistory(ctx context.Context, userID uuid.UUID, method AuthMethod, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.history[userID]
	now := time.Now().UTC()
	for i := range records {
		if records[i].Active && records[i].Method == method && records[i].Provider == provider {
			records[i].Active = false
			records[i].RemovedAt = &now
		}
	}
	return nil
}

// ListAuthHistory returns all auth history records for a user
func (r *InMemoryUserRepository) ListAuthHistory(ctx context.Context, userID uuid.UUID) ([]AuthHistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.history[userID]
	out := make([]AuthHistoryRecord, len(records))
	copy(out, records)
	return out, nil
}

// GetProfile retrieves the end-user profile for a user
func (r *InMemoryUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (EndUserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return EndUserProfile{}, ErrUserNotFound
	}
	return p, nil
}

// CreateProfile creates an end-user profile for a user
func (r *InMemoryUserRepository) CreateProfile(ctx context.Context, userID uuid.UUID) (EndUserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return EndUserProfile{}, ErrUserNotFound
	}
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	p := EndUserProfile{ID: uuid.New(), UserID: userID}
	r.profiles[userID] = p
	return p, nil
}
