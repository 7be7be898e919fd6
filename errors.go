package members

import "github.com/goliatone/go-errors"

const (
	TextCodeGuidNotSet         = "members_guid_not_set"
	TextCodeTokenNotFound      = "members_token_not_found"
	TextCodeCredentialNotFound = "members_credential_not_found"
	TextCodeMetaNotFound       = "members_meta_not_found"
	TextCodeProviderExchange   = "members_provider_exchange_failed"
	TextCodeVerificationFailed = "members_verification_failed"
	TextCodeEmptyPassword      = "members_empty_password"
	TextCodePasswordMismatch   = "members_password_mismatch"
)

// ErrGuidNotSet is returned when a profile mutation is attempted against an
// account that was never assigned a guid. This is a programmer error, not a
// recoverable user condition.
var ErrGuidNotSet = errors.New("account guid not set", errors.CategoryValidation).
	WithTextCode(TextCodeGuidNotSet).
	WithCode(errors.CodeBadRequest)

// ErrTokenNotFound is returned when no access token is stored for a provider.
var ErrTokenNotFound = errors.New("no access token for provider", errors.CategoryNotFound).
	WithTextCode(TextCodeTokenNotFound).
	WithCode(errors.CodeNotFound)

// ErrCredentialNotFound is returned when a credential lookup misses.
var ErrCredentialNotFound = errors.New("credential not found", errors.CategoryNotFound).
	WithTextCode(TextCodeCredentialNotFound).
	WithCode(errors.CodeNotFound)

// ErrMetaNotFound is returned when an account meta lookup misses.
var ErrMetaNotFound = errors.New("account meta not found", errors.CategoryNotFound).
	WithTextCode(TextCodeMetaNotFound).
	WithCode(errors.CodeNotFound)

// ErrProviderExchange is returned when the upstream provider token exchange
// fails or times out. No Authorisation is created in that case.
var ErrProviderExchange = errors.New("provider token exchange failed", errors.CategoryAuth).
	WithTextCode(TextCodeProviderExchange).
	WithCode(errors.CodeUnauthorized)

// ErrVerificationFailed is returned when a submitted verification key does
// not match the stored one, or no key was ever issued for the account.
var ErrVerificationFailed = errors.New("account verification failed", errors.CategoryValidation).
	WithTextCode(TextCodeVerificationFailed).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString is returned when an empty password reaches HashPassword.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a password does not match
// the stored hash.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeUnauthorized)
