package members

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// expiry date layouts accepted from serialized records, checked in order.
var expiryLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ExpiryInput is the accepted union for session expiry values: either an
// absolute instant, or a date string plus timezone pair. It is resolved once
// at the boundary into the canonical instant stored internally.
type ExpiryInput struct {
	Instant  *time.Time
	Date     string
	Timezone string
}

// ExpiryAt builds an ExpiryInput from an absolute instant.
func ExpiryAt(t time.Time) ExpiryInput {
	return ExpiryInput{Instant: &t}
}

// ExpiryDate builds an ExpiryInput from a date string and timezone name.
func ExpiryDate(date, timezone string) ExpiryInput {
	return ExpiryInput{Date: date, Timezone: timezone}
}

func (e ExpiryInput) resolve() (time.Time, error) {
	if e.Instant != nil {
		return *e.Instant, nil
	}

	name := e.Timezone
	if name == "" {
		name = "UTC"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Time{}, err
	}

	var parseErr error
	for _, layout := range expiryLayouts {
		t, err := time.ParseInLocation(layout, e.Date, loc)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}

	return time.Time{}, parseErr
}

// Authorisation is the state object for one authenticated session: the
// account guid, the client-visible cookie, the expiry instant, and the
// per-provider access tokens accumulated while the session is live.
type Authorisation struct {
	guid         string
	cookie       string
	expiry       time.Time
	accessTokens map[string]AccessToken
}

// NewAuthorisation creates an empty Authorisation. The cookie is generated
// on first read, not at construction.
func NewAuthorisation() *Authorisation {
	return &Authorisation{}
}

// Guid returns the account guid bound to this session.
func (a *Authorisation) Guid() string {
	return a.guid
}

// SetGuid binds the session to an account guid.
func (a *Authorisation) SetGuid(guid string) *Authorisation {
	a.guid = guid
	return a
}

// Cookie returns the client-visible session cookie value, generating a new
// random one on first read. Once generated the value never changes for the
// life of the object.
func (a *Authorisation) Cookie() string {
	if a.cookie == "" {
		a.cookie = uuid.NewString()
	}
	return a.cookie
}

// SetCookie restores a previously issued cookie value.
func (a *Authorisation) SetCookie(cookie string) *Authorisation {
	a.cookie = cookie
	return a
}

// Expiry returns the instant after which the session is invalid.
func (a *Authorisation) Expiry() time.Time {
	return a.expiry
}

// SetExpiry normalizes the given input to an absolute instant, overwriting
// any prior value.
func (a *Authorisation) SetExpiry(in ExpiryInput) error {
	t, err := in.resolve()
	if err != nil {
		return err
	}
	a.expiry = t
	return nil
}

// HasExpired reports whether the session expiry has passed.
func (a *Authorisation) HasExpired() bool {
	return !a.expiry.IsZero() && a.expiry.Before(time.Now())
}

// AddAccessToken stores the token under the lower-cased provider name,
// replacing any existing entry for that provider.
func (a *Authorisation) AddAccessToken(provider string, token AccessToken) *Authorisation {
	if a.accessTokens == nil {
		a.accessTokens = map[string]AccessToken{}
	}
	a.accessTokens[strings.ToLower(provider)] = token
	return a
}

// GetAccessToken looks up the token for a provider, case-insensitively.
func (a *Authorisation) GetAccessToken(provider string) (AccessToken, error) {
	token, ok := a.accessTokens[strings.ToLower(provider)]
	if !ok {
		return AccessToken{}, ErrTokenNotFound
	}
	return token, nil
}

// AccessTokens returns the provider token map. Keys are lower-cased.
func (a *Authorisation) AccessTokens() map[string]AccessToken {
	return a.accessTokens
}

// SetAccessTokens replaces the provider token map, normalizing keys.
func (a *Authorisation) SetAccessTokens(tokens map[string]AccessToken) *Authorisation {
	a.accessTokens = nil
	for provider, token := range tokens {
		a.AddAccessToken(provider, token)
	}
	return a
}

type authorisationRecord struct {
	Guid         string                 `json:"guid"`
	Cookie       string                 `json:"cookie"`
	Expiry       json.RawMessage        `json:"expiry"`
	AccessTokens map[string]AccessToken `json:"accessTokens"`
}

type expiryRecord struct {
	Date     string `json:"date"`
	Timezone string `json:"timezone"`
}

// MarshalJSON serializes the record with exactly the fields guid, cookie,
// expiry, and accessTokens. The expiry serializes as epoch seconds.
func (a *Authorisation) MarshalJSON() ([]byte, error) {
	var expiry int64
	if !a.expiry.IsZero() {
		expiry = a.expiry.Unix()
	}

	raw, err := json.Marshal(expiry)
	if err != nil {
		return nil, err
	}

	return json.Marshal(authorisationRecord{
		Guid:         a.guid,
		Cookie:       a.cookie,
		Expiry:       raw,
		AccessTokens: a.accessTokens,
	})
}

// AuthorisationFromJSON reconstructs an Authorisation from serialized data.
// The expiry is accepted either as epoch seconds or as a date plus timezone
// pair, for backward compatibility with older records. Malformed input that
// is not a structured record yields nil: callers must treat that as "no
// valid prior session", never as an error.
func AuthorisationFromJSON(data []byte) *Authorisation {
	record := authorisationRecord{}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}

	// An object with no guid is not a session record. This catches empty
	// structures as well as payloads from unrelated producers.
	if record.Guid == "" {
		return nil
	}

	auth := NewAuthorisation().
		SetGuid(record.Guid).
		SetCookie(record.Cookie)

	if len(record.Expiry) > 0 {
		var epoch int64
		if err := json.Unmarshal(record.Expiry, &epoch); err == nil {
			if epoch > 0 {
				auth.expiry = time.Unix(epoch, 0)
			}
		} else {
			pair := expiryRecord{}
			if err := json.Unmarshal(record.Expiry, &pair); err != nil {
				return nil
			}
			if err := auth.SetExpiry(ExpiryDate(pair.Date, pair.Timezone)); err != nil {
				return nil
			}
		}
	}

	auth.SetAccessTokens(record.AccessTokens)

	return auth
}
