package members

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Records is the persistence collaborator the provisioning workflow writes
// through. Lookups signal absence with a record-not-found error; callers
// decide whether absence is expected (recovery flow) or a failed
// precondition.
type Records interface {
	CreateAccount(ctx context.Context, displayname, email string, roles []string) (*Account, error)
	SaveAccount(ctx context.Context, account *Account) error

	CreateCredential(ctx context.Context, guid uuid.UUID, resourceOwnerID string, enabled bool) (*Credential, error)
	SaveCredential(ctx context.Context, credential *Credential) error
	GetCredentialByGuid(ctx context.Context, guid uuid.UUID) (*Credential, error)
	GetCredentialByResourceOwnerID(ctx context.Context, resourceOwnerID string) (*Credential, error)

	CreateProviderLink(ctx context.Context, guid uuid.UUID, provider, resourceOwnerID string) (*ProviderLink, error)
	SaveProviderLink(ctx context.Context, link *ProviderLink) error

	GetAccountMeta(ctx context.Context, guid uuid.UUID, key string) (*AccountMeta, error)
	SaveAccountMeta(ctx context.Context, meta *AccountMeta) error
}

type records struct {
	db          *bun.DB
	accounts    repository.Repository[*Account]
	credentials repository.Repository[*Credential]
	providers   repository.Repository[*ProviderLink]
	accountMeta repository.Repository[*AccountMeta]
}

var _ Records = (*records)(nil)

// NewRecords creates the Bun backed Records implementation.
func NewRecords(db *bun.DB) Records {
	return &records{
		db:          db,
		accounts:    newAccountsRepository(db),
		credentials: newCredentialsRepository(db),
		providers:   newProviderLinksRepository(db),
		accountMeta: newAccountMetaRepository(db),
	}
}

// CreateAccount persists a new account with the given roles. The guid is
// derived from the email so a retried registration resolves to the already
// created account instead of a duplicate.
func (r *records) CreateAccount(ctx context.Context, displayname, email string, roles []string) (*Account, error) {
	existing := &Account{}
	err := r.db.NewSelect().
		Model(existing).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return existing, nil
	}
	if !isRecordNotFound(err) {
		return nil, err
	}

	record := &Account{
		Displayname: displayname,
		Email:       email,
		Roles:       NormalizeRoles(roles),
		Enabled:     true,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		record.GUID = id
	} else {
		record.GUID = uuid.New()
	}

	return r.accounts.Create(ctx, record)
}

func (r *records) SaveAccount(ctx context.Context, account *Account) error {
	if account == nil || account.GUID == uuid.Nil {
		return ErrGuidNotSet
	}
	_, err := r.accounts.Update(ctx, account, repository.UpdateByID(account.GUID.String()))
	return err
}

func (r *records) CreateCredential(ctx context.Context, guid uuid.UUID, resourceOwnerID string, enabled bool) (*Credential, error) {
	record := &Credential{
		ID:              uuid.New(),
		GUID:            guid,
		ResourceOwnerID: resourceOwnerID,
		Enabled:         enabled,
	}
	return r.credentials.Create(ctx, record)
}

func (r *records) SaveCredential(ctx context.Context, credential *Credential) error {
	if credential.ID == uuid.Nil {
		credential.ID = uuid.New()
		_, err := r.credentials.Create(ctx, credential)
		return err
	}
	_, err := r.credentials.Update(ctx, credential, repository.UpdateByID(credential.ID.String()))
	return err
}

func (r *records) GetCredentialByGuid(ctx context.Context, guid uuid.UUID) (*Credential, error) {
	record := &Credential{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.guid = ?", guid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"guid": guid.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *records) GetCredentialByResourceOwnerID(ctx context.Context, resourceOwnerID string) (*Credential, error) {
	record := &Credential{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.resource_owner_id = ?", resourceOwnerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"resource_owner_id": resourceOwnerID})
		}
		return nil, err
	}
	return record, nil
}

func (r *records) CreateProviderLink(ctx context.Context, guid uuid.UUID, provider, resourceOwnerID string) (*ProviderLink, error) {
	now := time.Now()
	record := &ProviderLink{
		ID:              uuid.New(),
		GUID:            guid,
		Provider:        provider,
		ResourceOwnerID: resourceOwnerID,
		LastSeen:        &now,
		LastUpdate:      &now,
	}
	return r.providers.Create(ctx, record)
}

func (r *records) SaveProviderLink(ctx context.Context, link *ProviderLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
		_, err := r.providers.Create(ctx, link)
		return err
	}
	_, err := r.providers.Update(ctx, link, repository.UpdateByID(link.ID.String()))
	return err
}

func (r *records) GetAccountMeta(ctx context.Context, guid uuid.UUID, key string) (*AccountMeta, error) {
	record := &AccountMeta{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.guid = ? AND ?TableAlias.meta = ?", guid, key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"guid": guid.String(), "meta": key})
		}
		return nil, err
	}
	return record, nil
}

func (r *records) SaveAccountMeta(ctx context.Context, meta *AccountMeta) error {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
		_, err := r.accountMeta.Create(ctx, meta)
		return err
	}
	_, err := r.accountMeta.Update(ctx, meta, repository.UpdateByID(meta.ID.String()))
	return err
}

func isRecordNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

func newAccountsRepository(db *bun.DB) repository.Repository[*Account] {
	return repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.GUID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.GUID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})
}

func newCredentialsRepository(db *bun.DB) repository.Repository[*Credential] {
	return repository.NewRepository[*Credential](db, repository.ModelHandlers[*Credential]{
		NewRecord: func() *Credential { return &Credential{} },
		GetID: func(c *Credential) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Credential, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})
}

func newProviderLinksRepository(db *bun.DB) repository.Repository[*ProviderLink] {
	return repository.NewRepository[*ProviderLink](db, repository.ModelHandlers[*ProviderLink]{
		NewRecord: func() *ProviderLink { return &ProviderLink{} },
		GetID: func(p *ProviderLink) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *ProviderLink, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})
}

func newAccountMetaRepository(db *bun.DB) repository.Repository[*AccountMeta] {
	return repository.NewRepository[*AccountMeta](db, repository.ModelHandlers[*AccountMeta]{
		NewRecord: func() *AccountMeta { return &AccountMeta{} },
		GetID: func(m *AccountMeta) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *AccountMeta, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})
}
