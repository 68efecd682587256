// Package signin runs the local and external sign-in flows. Successful
// sign-ins run registered post-success hooks (login tracking lives
// there) and end with a JWT access/refresh pair.
package signin
