package company

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository defines persistence for companies, memberships,
// service categories and service areas.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, c ProviderCompany) (ProviderCompany, error)
	GetCompany(ctx context.Context, id uuid.UUID) (ProviderCompany, error)
	UpdateCompany(ctx context.Context, c ProviderCompany) (ProviderCompany, error)

	AddMembership(ctx context.Context, m CompanyMembership) (CompanyMembership, error)
	GetMembership(ctx context.Context, companyID, userID uuid.UUID) (CompanyMembership, error)
	UpdateMembership(ctx context.Context, m CompanyMembership) error
	RemoveMembership(ctx context.Context, companyID, userID uuid.UUID) error
	ListMemberships(ctx context.Context, companyID uuid.UUID) ([]CompanyMembership, error)
	ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]CompanyMembership, error)
	CountOwners(ctx context.Context, companyID uuid.UUID) (int64, error)

	CreateServiceCategory(ctx context.Context, c ServiceCategory) (ServiceCategory, error)
	GetServiceCategory(ctx context.Context, id int32) (ServiceCategory, error)
	ListServiceCategories(ctx context.Context, activeOnly bool) ([]ServiceCategory, error)

	AddServiceArea(ctx context.Context, a ProviderServiceArea) (ProviderServiceArea, error)
	RemoveServiceArea(ctx context.Context, id uuid.UUID) error
	ListServiceAreas(ctx context.Context, companyID uuid.UUID) ([]ProviderServiceArea, error)
}
