package location

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryReferenceDataRepository implements ReferenceDataRepository using
// in-memory storage. Transactions stage inserts and apply them on commit,
// so seeding atomicity behaves like the Postgres implementation.
type InMemoryReferenceDataRepository struct {
	// mu is a pointer so tx-bound copies from WithTx lock the same
	// mutex as the parent they share maps with.
	mu        *sync.RWMutex
	countries map[int32]Country
	states    map[int32]StateProvince
	addresses map[uuid.UUID]Address

	tx *inmemTx // non-nil when bound to a transaction
}

// NewInMemoryReferenceDataRepository creates a new in-memory repository
func NewInMemoryReferenceDataRepository() *InMemoryReferenceDataRepository {
	return &InMemoryReferenceDataRepository{
		mu:        &sync.RWMutex{},
		countries: make(map[int32]Country),
		states:    make(map[int32]StateProvince),
		addresses: make(map[uuid.UUID]Address),
	}
}

type inmemTx struct {
	repo      *InMemoryReferenceDataRepository
	countries []Country
	states    []StateProvince
	done      bool
}

// Commit applies the staged inserts to the backing maps
func (t *inmemTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for _, c := range t.countries {
		t.repo.countries[c.ID] = c
	}
	for _, sp := range t.states {
		t.repo.states[sp.ID] = sp
	}
	return nil
}

// Rollback discards the staged inserts
func (t *inmemTx) Rollback(ctx context.Context) error {
	t.done = true
	t.countries = nil
	t.states = nil
	return nil
}

// BeginTx starts an in-memory transaction
func (r *InMemoryReferenceDataRepository) BeginTx(ctx context.Context) (Tx, error) {
	return &inmemTx{repo: r}, nil
}

// WithTx returns a repository bound to the given transaction
func (r *InMemoryReferenceDataRepository) WithTx(tx Tx) ReferenceDataRepository {
	bound := &InMemoryReferenceDataRepository{
		mu:        r.mu,
		countries: r.countries,
		states:    r.states,
		addresses: r.addresses,
	}
	if t, ok := tx.(*inmemTx); ok {
		bound.tx = t
	}
	return bound
}

// CountCountries returns the number of country rows
func (r *InMemoryReferenceDataRepository) CountCountries(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.countries)), nil
}

// InsertCountries inserts country rows
func (r *InMemoryReferenceDataRepository) InsertCountries(ctx context.Context, countries []Country) error {
	if r.tx != nil {
		r.tx.countries = append(r.tx.countries, countries...)
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range countries {
		r.countries[c.ID] = c
	}
	return nil
}

// InsertStateProvinces inserts state/province rows
func (r *InMemoryReferenceDataRepository) InsertStateProvinces(ctx context.Context, states []StateProvince) error {
	if r.tx != nil {
		r.tx.states = append(r.tx.states, states...)
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sp := range states {
		r.states[sp.ID] = sp
	}
	return nil
}

// GetCountry retrieves a country by ID
func (r *InMemoryReferenceDataRepository) GetCountry(ctx context.Context, id int32) (Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.countries[id]
	if !ok {
		return Country{}, ErrCountryNotFound
	}
	return c, nil
}

// ListCountries returns all country rows
func (r *InMemoryReferenceDataRepository) ListCountries(ctx context.Context) ([]Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Country, 0, len(r.countries))
	for _, c := range r.countries {
		out = append(out, c)
	}
	return out, nil
}

// ListStateProvincesByCountry returns the states owned by a country
func (r *InMemoryReferenceDataRepository) ListStateProvincesByCountry(ctx context.Context, countryID int32) ([]StateProvince, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []StateProvince
	for _, sp := range r.states {
		if sp.CountryID == countryID {
			out = append(out, sp)
		}
	}
	return out, nil
}

// CreateAddress stores a new address
func (r *InMemoryReferenceDataRepository) CreateAddress(ctx context.Context, addr Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[addr.Location.StateProvinceID]; !ok {
		return Address{}, ErrStateProvinceNotFound
	}
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}
	addr.CreatedAt = time.Now().UTC()
	r.addresses[addr.ID] = addr
	return addr, nil
}

// GetAddress retrieves an address by ID
func (r *InMemoryReferenceDataRepository) GetAddress(ctx context.Context, id uuid.UUID) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addr, ok := r.addresses[id]
	if !ok {
		return Address{}, ErrAddressNotFound
	}
	return addr, nil
}

// ListAddressesByProfile returns the addresses owned by an end-user profile
func (r *InMemoryReferenceDataRepository) ListAddressesByProfile(ctx context.Context, profileID uuid.UUID) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Address
	for _, addr := range r.addresses {
		if addr.ProfileID != nil && *addr.ProfileID == profileID {
			out = append(out, addr)
		}
	}
	return out, nil
}

// ListAddressesByCompany returns the addresses owned by a provider company
func (r *InMemoryReferenceDataRepository) ListAddressesByCompany(ctx context.Context, companyID uuid.UUID) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Address
	for _, addr := range r.addresses {
		if addr.CompanyID != nil && *addr.CompanyID == companyID {
			out = append(out, addr)
		}
	}
	return out, nil
}

// DeleteAddress removes an address
func (r *InMemoryReferenceDataRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addresses[id]; !ok {
		return ErrAddressNotFound
	}
	delete(r.addresses, id)
	return nil
}
