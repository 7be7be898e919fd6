package members

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountVerificationKeyName is the well-known meta key the single-use
// email verification key is stored under.
const AccountVerificationKeyName = "account-verification-key"

// LocalProviderName is the provider name used for password-authenticated
// accounts.
const LocalProviderName = "local"

// Account is the member account model
type Account struct {
	bun.BaseModel `bun:"table:members_account,alias:acc"`
	GUID          uuid.UUID  `bun:"guid,pk,nullzero,type:uuid" json:"guid,omitempty"`
	Displayname   string     `bun:"displayname,notnull" json:"displayname,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Roles         []string   `bun:"roles,array" json:"roles,omitempty"`
	Enabled       bool       `bun:"enabled" json:"enabled,omitempty"`
	Verified      bool       `bun:"verified" json:"verified,omitempty"`
	LastSeen      *time.Time `bun:"lastseen,nullzero" json:"lastseen,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasRole reports whether the account carries the given role.
func (a *Account) HasRole(role AccountRole) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole appends a role if not already present.
func (a *Account) AddRole(role AccountRole) *Account {
	if !a.HasRole(role) {
		a.Roles = append(a.Roles, role)
	}
	return a
}

// Credential is the local authentication record for an account. Enabled
// marks the account as locally authenticatable; provider-only accounts have
// no credential at all.
type Credential struct {
	bun.BaseModel   `bun:"table:members_credential,alias:cred"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	GUID            uuid.UUID  `bun:"guid,notnull,type:uuid" json:"guid,omitempty"`
	ResourceOwnerID string     `bun:"resource_owner_id,notnull" json:"resource_owner_id,omitempty"`
	PasswordHash    string     `bun:"password_hash" json:"-"`
	Enabled         bool       `bun:"enabled" json:"enabled,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ProviderLink is the persisted binding between an account guid and one
// provider's remote resource owner id.
type ProviderLink struct {
	bun.BaseModel   `bun:"table:members_provider,alias:prov"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	GUID            uuid.UUID  `bun:"guid,nullzero,type:uuid" json:"guid,omitempty"`
	Provider        string     `bun:"provider,notnull" json:"provider,omitempty"`
	ResourceOwnerID string     `bun:"resource_owner_id,notnull" json:"resource_owner_id,omitempty"`
	LastSeen        *time.Time `bun:"lastseen,nullzero" json:"lastseen,omitempty"`
	LastUpdate      *time.Time `bun:"lastupdate,nullzero" json:"lastupdate,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Touch stamps the link as updated now.
func (p *ProviderLink) Touch() *ProviderLink {
	now := time.Now()
	p.LastUpdate = &now
	return p
}

// AccountMeta is a named value attached to an account, e.g. the email
// verification key.
type AccountMeta struct {
	bun.BaseModel `bun:"table:members_account_meta,alias:meta"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	GUID          uuid.UUID  `bun:"guid,notnull,type:uuid" json:"guid,omitempty"`
	Meta          string     `bun:"meta,notnull" json:"meta,omitempty"`
	Value         string     `bun:"value" json:"value,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
