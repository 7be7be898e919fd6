package members

import "context"

// Provider is the external OAuth collaborator used during registration when
// no transitional provider state is in flight. The exchange is fallible and
// possibly slow: callers apply a timeout at this boundary via ctx.
type Provider interface {
	// Name returns the provider identifier (e.g. "github", "google",
	// "local").
	Name() string

	// PasswordGrant trades member credentials for an access token using
	// password-grant semantics.
	PasswordGrant(ctx context.Context, username, password string) (AccessToken, error)
}

// TransitionalProvider carries one provider's access token and a
// not-yet-persisted provider link draft. It exists only between "member
// authenticated via provider but has no local account yet" and "account
// created and provider bound", and is consumed exactly once during
// registration.
type TransitionalProvider struct {
	accessToken    AccessToken
	providerEntity *ProviderLink
}

// NewTransitionalProvider builds the pre-registration holder for a provider
// identity.
func NewTransitionalProvider(token AccessToken, entity *ProviderLink) *TransitionalProvider {
	return &TransitionalProvider{
		accessToken:    token,
		providerEntity: entity,
	}
}

// GetAccessToken returns the access token obtained during the provider leg.
func (p *TransitionalProvider) GetAccessToken() AccessToken {
	return p.accessToken
}

// GetProviderEntity returns the draft provider link awaiting an account
// guid.
func (p *TransitionalProvider) GetProviderEntity() *ProviderLink {
	return p.providerEntity
}
