// Package credential is the credential store: bcrypt password hashes
// with a complexity policy, email-confirmation state and one-shot
// confirmation tokens, and external (provider, key) login associations.
package credential
