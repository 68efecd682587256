// Package externalprovider manages the OAuth2 identity providers users can
// sign in with (Google, LinkedIn, Microsoft). It holds per-provider client
// configuration, issues CSRF state values for the authorization redirect,
// and exchanges callback codes for normalized user info.
package externalprovider
