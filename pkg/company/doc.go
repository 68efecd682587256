// Package company manages provider companies, their memberships and the
// service taxonomy (categories and geographic service areas). Every
// company keeps at least one owner at all times.
package company
