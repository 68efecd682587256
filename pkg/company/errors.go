package company

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrCategoryNotFound    = errors.New("service category not found")
	ErrServiceAreaNotFound = errors.New("service area not found")

	// ErrMemberExists is returned when adding a user who already belongs
	// to the company.
	ErrMemberExists = errors.New("user is already a member of this company")

	// ErrLastOwner is returned when removing or demoting the company's
	// only remaining owner.
	ErrLastOwner = errors.New("cannot remove the last owner of a company")
)
