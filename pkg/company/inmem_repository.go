package company

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCompanyRepository implements CompanyRepository with in-memory
// maps for testing.
type InMemoryCompanyRepository struct {
	mu          sync.RWMutex
	companies   map[uuid.UUID]ProviderCompany
	memberships map[uuid.UUID]CompanyMembership
	categories  map[int32]ServiceCategory
	areas       map[uuid.UUID]ProviderServiceArea
	nextCatID   int32
}

// NewInMemoryCompanyRepository creates a new in-memory company repository
func NewInMemoryCompanyRepository() *InMemoryCompanyRepository {
	return &InMemoryCompanyRepository{
		companies:   make(map[uuid.UUID]ProviderCompany),
		memberships: make(map[uuid.UUID]CompanyMembership),
		categories:  make(map[int32]ServiceCategory),
		areas:       make(map[uuid.UUID]ProviderServiceArea),
		nextCatID:   1,
	}
}

func (r *InMemoryCompanyRepository) CreateCompany(ctx context.Context, c ProviderCompany) (ProviderCompany, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.companies[c.ID] = c
	return c, nil
}

func (r *InMemoryCompanyRepository) GetCompany(ctx context.Context, id uuid.UUID) (ProviderCompany, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.companies[id]
	if !ok {
		return ProviderCompany{}, ErrCompanyNotFound
	}
	return c, nil
}

func (r *InMemoryCompanyRepository) UpdateCompany(ctx context.Context, c ProviderCompany) (ProviderCompany, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.companies[c.ID]; !ok {
		return ProviderCompany{}, ErrCompanyNotFound
	}
	r.companies[c.ID] = c
	return c, nil
}

func (r *InMemoryCompanyRepository) AddMembership(ctx context.Context, m CompanyMembership) (CompanyMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.memberships {
		if existing.CompanyID == m.CompanyID && existing.UserID == m.UserID {
			return CompanyMembership{}, ErrMemberExists
		}
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now().UTC()
	}
	r.memberships[m.ID] = m
	return m, nil
}

func (r *InMemoryCompanyRepository) GetMembership(ctx context.Context, companyID, userID uuid.UUID) (CompanyMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.memberships {
		if m.CompanyID == companyID && m.UserID == userID {
			return m, nil
		}
	}
	return CompanyMembership{}, ErrMembershipNotFound
}

func (r *InMemoryCompanyRepository) UpdateMembership(ctx context.Context, m CompanyMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memberships[m.ID]; !ok {
		return ErrMembershipNotFound
	}
	r.memberships[m.ID] = m
	return nil
}

func (r *InMemoryCompanyRepository) RemoveMembership(ctx context.Context, companyID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.memberships {
		if m.CompanyID == companyID && m.UserID == userID {
			delete(r.memberships, id)
			return nil
		}
	}
	return ErrMembershipNotFound
}

func (r *InMemoryCompanyRepository) ListMemberships(ctx context.Context, companyID uuid.UUID) ([]CompanyMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []CompanyMembership
	for _, m := range r.memberships {
		if m.CompanyID == companyID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *InMemoryCompanyRepository) ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]CompanyMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []CompanyMembership
	for _, m := range r.memberships {
		if m.UserID == userID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *InMemoryCompanyRepository) CountOwners(ctx context.Context, companyID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, m := range r.memberships {
		if m.CompanyID == companyID && m.Role == RoleOwner {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryCompanyRepository) CreateServiceCategory(ctx context.Context, c ServiceCategory) (ServiceCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		c.ID = r.nextCatID
		r.nextCatID++
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *InMemoryCompanyRepository) GetServiceCategory(ctx context.Context, id int32) (ServiceCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return ServiceCategory{}, ErrCategoryNotFound
	}
	return c, nil
}

func (r *InMemoryCompanyRepository) ListServiceCategories(ctx context.Context, activeOnly bool) ([]ServiceCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ServiceCategory
	for _, c := range r.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (r *InMemoryCompanyRepository) AddServiceArea(ctx context.Context, a ProviderServiceArea) (ProviderServiceArea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[a.ServiceCategoryID]; !ok {
		return ProviderServiceArea{}, ErrCategoryNotFound
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.areas[a.ID] = a
	return a, nil
}

func (r *InMemoryCompanyRepository) RemoveServiceArea(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.areas[id]; !ok {
		return ErrServiceAreaNotFound
	}
	delete(r.areas, id)
	return nil
}

func (r *InMemoryCompanyRepository) ListServiceAreas(ctx context.Context, companyID uuid.UUID) ([]ProviderServiceArea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ProviderServiceArea
	for _, a := range r.areas {
		if a.CompanyID == companyID {
			result = append(result, a)
		}
	}
	return result, nil
}
