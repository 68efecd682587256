package externalprovider

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrProviderNotFound is returned when a provider name is unknown
	ErrProviderNotFound = errors.New("provider not found")

	// ErrStateNotFound is returned when an OAuth2 state value is unknown
	// or has been consumed
	ErrStateNotFound = errors.New("oauth2 state not found")

	// ErrStateExpired is returned when an OAuth2 state value has expired
	ErrStateExpired = errors.New("oauth2 state expired")
)

// ExternalProviderRepository defines the interface for provider lookup and
// OAuth2 state management
type ExternalProviderRepository interface {
	GetProvider(name string) (*ExternalProvider, error)
	GetEnabledProviders() (map[string]*ExternalProvider, error)
	RegisterProvider(provider *ExternalProvider) error

	StoreState(state *OAuth2State) error
	ConsumeState(stateValue string) (*OAuth2State, error)
	CleanupExpiredStates() int
}

// InMemoryExternalProviderRepository implements
// ExternalProviderRepository using in-memory storage
type InMemoryExternalProviderRepository struct {
	mutex     sync.RWMutex
	providers map[string]*ExternalProvider
	states    map[string]*OAuth2State
}

// NewInMemoryExternalProviderRepository creates a new in-memory repository
func NewInMemoryExternalProviderRepository() *InMemoryExternalProviderRepository {
	return &InMemoryExternalProviderRepository{
		providers: make(map[string]*ExternalProvider),
		states:    make(map[string]*OAuth2State),
	}
}

// GetProvider retrieves a provider by name
func (r *InMemoryExternalProviderRepository) GetProvider(name string) (*ExternalProvider, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	providerCopy := *provider
	return &providerCopy, nil
}

// GetEnabledProviders returns only enabled providers
func (r *InMemoryExternalProviderRepository) GetEnabledProviders() (map[string]*ExternalProvider, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*ExternalProvider)
	for name, provider := range r.providers {
		if provider.Enabled {
			providerCopy := *provider
			result[name] = &providerCopy
		}
	}
	return result, nil
}

// RegisterProvider adds or replaces a provider configuration
func (r *InMemoryExternalProviderRepository) RegisterProvider(provider *ExternalProvider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	if err := provider.ValidateConfig(); err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	providerCopy := *provider
	r.providers[provider.Name] = &providerCopy
	return nil
}

// StoreState stores an OAuth2 state value
func (r *InMemoryExternalProviderRepository) StoreState(state *OAuth2State) error {
	if state == nil || state.State == "" {
		return fmt.Errorf("state cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	stateCopy := *state
	r.states[state.State] = &stateCopy
	return nil
}

// ConsumeState retrieves and deletes an OAuth2 state value. A state can
// be consumed at most once.
func (r *InMemoryExternalProviderRepository) ConsumeState(stateValue string) (*OAuth2State, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	state, exists := r.states[stateValue]
	if !exists {
		return nil, ErrStateNotFound
	}
	delete(r.states, stateValue)

	if time.Now().Unix() > state.ExpiresAt {
		return nil, ErrStateExpired
	}
	return state, nil
}

// CleanupExpiredStates removes expired states and returns how many were
// dropped
func (r *InMemoryExternalProviderRepository) CleanupExpiredStates() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().Unix()
	var dropped int
	for value, state := range r.states {
		if now > state.ExpiresAt {
			delete(r.states, value)
			dropped++
		}
	}
	return dropped
}
