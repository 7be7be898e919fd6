package members

import "time"

// AccessToken is an opaque provider token record. The value is produced by
// an external provider collaborator; this package only stores and
// round-trips it.
type AccessToken struct {
	Token           string         `json:"access_token"`
	RefreshToken    string         `json:"refresh_token,omitempty"`
	ResourceOwnerID string         `json:"resource_owner_id,omitempty"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	Raw             map[string]any `json:"raw,omitempty"`
}

// Expired reports whether the token carries an expiry in the past. Tokens
// without expiry metadata never expire.
func (t AccessToken) Expired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return t.ExpiresAt.Before(time.Now())
}
