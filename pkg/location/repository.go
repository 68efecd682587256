package location

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrCountryNotFound is returned when a country identifier is unknown
	ErrCountryNotFound = errors.New("country not found")

	// ErrStateProvinceNotFound is returned when a state/province identifier is unknown
	ErrStateProvinceNotFound = errors.New("state/province not found")

	// ErrAddressNotFound is returned when an address does not exist
	ErrAddressNotFound = errors.New("address not found")
)

// Tx is the slice of a database transaction the seeder needs
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner starts transactions for the seeder
type TxBeginner interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// ReferenceDataRepository defines the interface for the geographic lookup
// tables and the addresses that reference them.
type ReferenceDataRepository interface {
	// Reference data
	CountCountries(ctx context.Context) (int64, error)
	InsertCountries(ctx context.Context, countries []Country) error
	InsertStateProvinces(ctx context.Context, states []StateProvince) error
	GetCountry(ctx context.Context, id int32) (Country, error)
	ListCountries(ctx context.Context) ([]Country, error)
	ListStateProvincesByCountry(ctx context.Context, countryID int32) ([]StateProvince, error)

	// Addresses
	CreateAddress(ctx context.Context, addr Address) (Address, error)
	GetAddress(ctx context.Context, id uuid.UUID) (Address, error)
	ListAddressesByProfile(ctx context.Context, profileID uuid.UUID) ([]Address, error)
	ListAddressesByCompany(ctx context.Context, companyID uuid.UUID) ([]Address, error)
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx Tx) ReferenceDataRepository
}
