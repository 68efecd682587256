// Package user holds the platform account model: identity, primary
// authentication method, the initial email confirmation latch, and the
// per-method audit history. Policy around linking and confirmation lives
// in pkg/authlink; this package stores and retrieves.
package user
