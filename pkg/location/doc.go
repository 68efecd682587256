// Package location owns the geographic reference data (countries and
// states/provinces), the Location value type, addresses, and the startup
// seeder that populates the reference tables exactly once inside a single
// transaction.
//
// Reference data is immutable after seeding. Addresses embed a Location
// value by composition and belong to either an end-user profile or a
// provider company.
package location
