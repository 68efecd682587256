// Package authlink implements the authentication-method policies for user
// accounts: linking and unlinking sign-in methods, the email-confirmation
// gate, and best-effort sign-in tracking.
//
// # Overview
//
// Three services, all operating on the user.User aggregate:
//
//   - LinkingService — add a local password, link or unlink an external
//     provider identity. Guarantees a user always keeps at least one
//     usable authentication method: the last-method guard checks the
//     authoritative external-login count from the credential store at
//     unlink time.
//   - ConfirmationService — decides whether an account counts as
//     confirmed. Users whose primary method is an external provider are
//     trusted unconditionally; local-primary users must confirm their
//     email once, after which the InitialEmailConfirmed latch is set and
//     never unset. Store errors fail closed (unconfirmed).
//   - TrackingService — records last-login time after a successful
//     sign-in and repairs the has-local-password flag. Best effort:
//     persistence failures never fail the sign-in.
//
// # Basic Usage
//
//	creds := credential.NewCredentialService(credential.NewInMemoryCredentialRepository())
//	users := user.NewInMemoryUserRepository()
//
//	linking := authlink.NewLinkingService(creds, users)
//	confirmation := authlink.NewConfirmationService(creds, users)
//
//	updated, err := linking.AddLocalPassword(ctx, u, "S3cure!pass")
//	if errors.Is(err, authlink.ErrDuplicatePassword) {
//		// user already has one
//	}
//
//	ok, err := confirmation.IsConfirmed(ctx, updated)
//
// # Error Handling
//
// Linking operations return the structured errors ErrDuplicatePassword,
// ErrExternalAccountAlreadyLinked and ErrCannotRemoveLastAuthMethod for
// the recoverable, user-visible cases; unexpected store failures are
// wrapped and propagated.
//
// # Related Packages
//
//   - pkg/credential - concrete credential store
//   - pkg/signin - sign-in flow invoking TrackingService via hooks
//   - pkg/user - the User aggregate and repository
package authlink
