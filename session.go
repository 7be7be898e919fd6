package members

import "time"

// Session holds the current Authorisation (or none) plus an optional
// transitional provider slot for one request context. Sessions are never
// shared across requests: use WithContext/FromContext to scope one per
// request.
type Session struct {
	config       Config
	auth         *Authorisation
	transitional *TransitionalProvider
	logger       Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger overrides the default logger.
func WithSessionLogger(l Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates an empty session scoped to one request context.
func NewSession(config Config, opts ...SessionOption) *Session {
	s := &Session{
		config: config,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// HasAuthorisation reports whether an Authorisation exists for this
// request context.
func (s *Session) HasAuthorisation() bool {
	return s.auth != nil
}

// GetAuthorisation returns the current Authorisation, or nil.
func (s *Session) GetAuthorisation() *Authorisation {
	return s.auth
}

// SetAuthorisation restores an Authorisation, typically one reconstructed
// from serialized state at the start of a request.
func (s *Session) SetAuthorisation(auth *Authorisation) *Session {
	s.auth = auth
	return s
}

// CreateAuthorisation binds the session to the given account guid, creating
// the Authorisation if absent and stamping the configured default lifetime.
// The cookie is touched so it exists before the record is first serialized.
func (s *Session) CreateAuthorisation(guid string) *Authorisation {
	if s.auth == nil {
		s.auth = NewAuthorisation()
	}

	s.auth.SetGuid(guid)
	expiry := time.Now().Add(time.Duration(s.config.GetSessionLifetime()) * time.Hour)
	if err := s.auth.SetExpiry(ExpiryAt(expiry)); err != nil {
		s.logger.Error("failed to set session expiry: %v", err)
	}
	s.auth.Cookie()

	return s.auth
}

// AddAccessToken stores a provider token on the current Authorisation,
// creating one if absent.
func (s *Session) AddAccessToken(provider string, token AccessToken) *Session {
	if s.auth == nil {
		s.auth = NewAuthorisation()
	}
	s.auth.AddAccessToken(provider, token)
	return s
}

// IsTransitional reports whether a provider identity is in flight for this
// request and no Authorisation exists yet.
func (s *Session) IsTransitional() bool {
	return s.transitional != nil && s.auth == nil
}

// SetTransitionalProvider stores the in-flight provider identity for the
// pre-registration flow.
func (s *Session) SetTransitionalProvider(tp *TransitionalProvider) *Session {
	s.transitional = tp
	return s
}

// GetTransitionalProvider returns the in-flight provider identity, or nil.
func (s *Session) GetTransitionalProvider() *TransitionalProvider {
	return s.transitional
}

// RemoveTransitionalProvider clears the transitional slot so it cannot be
// consumed again or leak into a later request.
func (s *Session) RemoveTransitionalProvider() {
	s.transitional = nil
}
