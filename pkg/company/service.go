package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CompanyService provides company and membership operations
type CompanyService struct {
	repo CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(repo CompanyRepository) *CompanyService {
	return &CompanyService{
		repo: repo,
	}
}

// CreateCompany creates a provider company with the creating user as its
// first owner.
func (s *CompanyService) CreateCompany(ctx context.Context, params CreateCompanyParams) (ProviderCompany, error) {
	if params.CompanyName == "" {
		return ProviderCompany{}, fmt.Errorf("company name is required")
	}
	if params.OwnerUserID == uuid.Nil {
		return ProviderCompany{}, fmt.Errorf("owner user is required")
	}

	c, err := s.repo.CreateCompany(ctx, ProviderCompany{
		CompanyName: params.CompanyName,
		Website:     params.Website,
		Description: params.Description,
		DUNSNumber:  params.DUNSNumber,
	})
	if err != nil {
		return ProviderCompany{}, fmt.Errorf("failed to create company: %w", err)
	}

	_, err = s.repo.AddMembership(ctx, CompanyMembership{
		UserID:    params.OwnerUserID,
		CompanyID: c.ID,
		Role:      RoleOwner,
	})
	if err != nil {
		return ProviderCompany{}, fmt.Errorf("failed to add owner membership: %w", err)
	}

	slog.Info("Created company", "companyId", c.ID, "ownerId", params.OwnerUserID)
	return c, nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (ProviderCompany, error) {
	return s.repo.GetCompany(ctx, id)
}

// AddMember adds a user to a company with the given role.
func (s *CompanyService) AddMember(ctx context.Context, companyID, userID uuid.UUID, role MembershipRole) (CompanyMembership, error) {
	if _, err := ParseMembershipRole(string(role)); err != nil {
		return CompanyMembership{}, err
	}
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		return CompanyMembership{}, err
	}

	m, err := s.repo.AddMembership(ctx, CompanyMembership{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	})
	if err != nil {
		return CompanyMembership{}, err
	}
	slog.Info("Added company member", "companyId", companyID, "userId", userID, "role", role)
	return m, nil
}

// RemoveMember removes a user from a company. Removing the last owner is
// rejected with ErrLastOwner; the owner count is always read from the
// store at guard time.
func (s *CompanyService) RemoveMember(ctx context.Context, companyID, userID uuid.UUID) error {
	m, err := s.repo.GetMembership(ctx, companyID, userID)
	if err != nil {
		return err
	}

	if m.Role == RoleOwner {
		owners, err := s.repo.CountOwners(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	if err := s.repo.RemoveMembership(ctx, companyID, userID); err != nil {
		return err
	}
	slog.Info("Removed company member", "companyId", companyID, "userId", userID)
	return nil
}

// ChangeMemberRole updates a member's role. Demoting the last owner is
// rejected with ErrLastOwner.
func (s *CompanyService) ChangeMemberRole(ctx context.Context, companyID, userID uuid.UUID, role MembershipRole) error {
	if _, err := ParseMembershipRole(string(role)); err != nil {
		return err
	}

	m, err := s.repo.GetMembership(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if m.Role == role {
		return nil
	}

	if m.Role == RoleOwner {
		owners, err := s.repo.CountOwners(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	m.Role = role
	return s.repo.UpdateMembership(ctx, m)
}

// ListMembers returns all memberships of a company
func (s *CompanyService) ListMembers(ctx context.Context, companyID uuid.UUID) ([]CompanyMembership, error) {
	return s.repo.ListMemberships(ctx, companyID)
}

// CompaniesForUser returns the memberships a user holds
func (s *CompanyService) CompaniesForUser(ctx context.Context, userID uuid.UUID) ([]CompanyMembership, error) {
	return s.repo.ListUserMemberships(ctx, userID)
}

// AddServiceArea declares that a company serves a category within a
// geographic scope. The category must exist and be active.
func (s *CompanyService) AddServiceArea(ctx context.Context, companyID uuid.UUID, categoryID int32, areaType ServiceAreaType) (ProviderServiceArea, error) {
	cat, err := s.repo.GetServiceCategory(ctx, categoryID)
	if err != nil {
		return ProviderServiceArea{}, err
	}
	if !cat.IsActive {
		return ProviderServiceArea{}, fmt.Errorf("service category %q is inactive", cat.Name)
	}

	return s.repo.AddServiceArea(ctx, ProviderServiceArea{
		CompanyID:         companyID,
		ServiceCategoryID: categoryID,
		AreaType:          areaType,
		IsActive:          true,
	})
}

// RemoveServiceArea removes a service area declaration
func (s *CompanyService) RemoveServiceArea(ctx context.Context, id uuid.UUID) error {
	return s.repo.RemoveServiceArea(ctx, id)
}

// ServiceAreas lists the service areas of a company
func (s *CompanyService) ServiceAreas(ctx context.Context, companyID uuid.UUID) ([]ProviderServiceArea, error) {
	return s.repo.ListServiceAreas(ctx, companyID)
}

// Categories lists service categories, optionally only active ones
func (s *CompanyService) Categories(ctx context.Context, activeOnly bool) ([]ServiceCategory, error) {
	return s.repo.ListServiceCategories(ctx, activeOnly)
}

// IsMember reports whether the user belongs to the company
func (s *CompanyService) IsMember(ctx context.Context, companyID, userID uuid.UUID) (bool, error) {
	_, err := s.repo.GetMembership(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
