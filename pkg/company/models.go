package company

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MembershipRole is a user's role within a provider company.
type MembershipRole string

const (
	RoleOwner    MembershipRole = "owner"
	RoleAdmin    MembershipRole = "admin"
	RoleEmployee MembershipRole = "employee"
)

// ParseMembershipRole converts a string into a MembershipRole
func ParseMembershipRole(s string) (MembershipRole, error) {
	switch MembershipRole(s) {
	case RoleOwner, RoleAdmin, RoleEmployee:
		return MembershipRole(s), nil
	}
	return "", fmt.Errorf("unknown membership role: %s", s)
}

// ServiceAreaType is the geographic scope of a provider service area.
type ServiceAreaType string

const (
	AreaCity     ServiceAreaType = "city"
	AreaCounty   ServiceAreaType = "county"
	AreaState    ServiceAreaType = "state"
	AreaRegional ServiceAreaType = "regional"
	AreaNational ServiceAreaType = "national"
)

// ProviderCompany is a service-provider organization on the platform.
type ProviderCompany struct {
	ID          uuid.UUID
	CompanyName string
	Website     string
	Description string
	DUNSNumber  string
	IsVerified  bool
	CreatedAt   time.Time
}

// CompanyMembership links a user to a company with a role.
type CompanyMembership struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      MembershipRole
	AddedAt   time.Time
}

// ServiceCategory is one entry of the service taxonomy.
type ServiceCategory struct {
	ID          int32
	Name        string
	Description string
	UNSPSCCode  string
	IsActive    bool
}

// ProviderServiceArea declares that a company offers a service category
// within a geographic scope.
type ProviderServiceArea struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	ServiceCategoryID int32
	AreaType          ServiceAreaType
	IsActive          bool
}

// CreateCompanyParams represents parameters for creating a company
type CreateCompanyParams struct {
	CompanyName string
	Website     string
	Description string
	DUNSNumber  string
	OwnerUserID uuid.UUID
}
