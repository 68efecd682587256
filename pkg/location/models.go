package location

import (
	"time"

	"github.com/google/uuid"
)

// Country is a reference-data row, keyed by a small fixed identifier.
// Created once at first application start, never mutated afterwards.
type Country struct {
	ID       int32
	Name     string
	Iso2Code string
	Iso3Code string
}

// StateProvince is a reference-data row owned by a Country
type StateProvince struct {
	ID           int32
	CountryID    int32
	Name         string
	Abbreviation string
}

// Location is a geographic value: a street position plus its reference to
// the state/province lookup. It carries no identity of its own and is
// embedded by composition wherever a place is needed.
type Location struct {
	StreetLine1     string
	City            string
	PostalCode      string
	Latitude        float64
	Longitude       float64
	StateProvinceID int32
}

// AddressPurpose classifies what an address is used for
type AddressPurpose string

const (
	PurposeMailing      AddressPurpose = "mailing"
	PurposeBilling      AddressPurpose = "billing"
	PurposeService      AddressPurpose = "service"
	PurposeResidential  AddressPurpose = "residential"
	PurposeHeadquarters AddressPurpose = "headquarters"
)

// Address is an owned, named place: a Location value plus naming,
// secondary street lines, purpose and an owner reference. Exactly one of
// ProfileID or CompanyID is set.
type Address struct {
	ID          uuid.UUID
	Name        string
	Location    Location
	StreetLine2 string
	StreetLine3 string
	Purpose     AddressPurpose
	ProfileID   *uuid.UUID
	CompanyID   *uuid.UUID
	CreatedAt   time.Time
}
