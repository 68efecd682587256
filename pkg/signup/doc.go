// Package signup registers new accounts. Local registrations start
// unconfirmed and receive a confirmation email; external registrations
// come from a completed OAuth2 exchange and are confirmed from the start.
package signup
