package members_test

import (
	"context"

	members "github.com/goliatone/go-members"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRecords implements members.Records
type MockRecords struct {
	mock.Mock
}

func (m *MockRecords) CreateAccount(ctx context.Context, displayname, email string, roles []string) (*members.Account, error) {
	args := m.Called(ctx, displayname, email, roles)
	var account *members.Account
	if v := args.Get(0); v != nil {
		account = v.(*members.Account)
	}
	return account, args.Error(1)
}

func (m *MockRecords) SaveAccount(ctx context.Context, account *members.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRecords) CreateCredential(ctx context.Context, guid uuid.UUID, resourceOwnerID string, enabled bool) (*members.Credential, error) {
	args := m.Called(ctx, guid, resourceOwnerID, enabled)
	var credential *members.Credential
	if v := args.Get(0); v != nil {
		credential = v.(*members.Credential)
	}
	return credential, args.Error(1)
}

func (m *MockRecords) SaveCredential(ctx context.Context, credential *members.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockRecords) GetCredentialByGuid(ctx context.Context, guid uuid.UUID) (*members.Credential, error) {
	args := m.Called(ctx, guid)
	var credential *members.Credential
	if v := args.Get(0); v != nil {
		credential = v.(*members.Credential)
	}
	return credential, args.Error(1)
}

func (m *MockRecords) GetCredentialByResourceOwnerID(ctx context.Context, resourceOwnerID string) (*members.Credential, error) {
	args := m.Called(ctx, resourceOwnerID)
	var credential *members.Credential
	if v := args.Get(0); v != nil {
		credential = v.(*members.Credential)
	}
	return credential, args.Error(1)
}

func (m *MockRecords) CreateProviderLink(ctx context.Context, guid uuid.UUID, provider, resourceOwnerID string) (*members.ProviderLink, error) {
	args := m.Called(ctx, guid, provider, resourceOwnerID)
	var link *members.ProviderLink
	if v := args.Get(0); v != nil {
		link = v.(*members.ProviderLink)
	}
	return link, args.Error(1)
}

func (m *MockRecords) SaveProviderLink(ctx context.Context, link *members.ProviderLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockRecords) GetAccountMeta(ctx context.Context, guid uuid.UUID, key string) (*members.AccountMeta, error) {
	args := m.Called(ctx, guid, key)
	var meta *members.AccountMeta
	if v := args.Get(0); v != nil {
		meta = v.(*members.AccountMeta)
	}
	return meta, args.Error(1)
}

func (m *MockRecords) SaveAccountMeta(ctx context.Context, meta *members.AccountMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

// MockProvider implements members.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) PasswordGrant(ctx context.Context, username, password string) (members.AccessToken, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(members.AccessToken), args.Error(1)
}

// capturingDispatcher records dispatched profile events in order. The
// workflow reuses one event across pre/post dispatch, so the type is
// captured at dispatch time.
type capturingDispatcher struct {
	events []*members.ProfileEvent
	types  []members.ProfileEventType
}

func (c *capturingDispatcher) Dispatch(ctx context.Context, event *members.ProfileEvent) error {
	c.events = append(c.events, event)
	c.types = append(c.types, event.EventType)
	return nil
}

// mockConfig implements members.Config
type mockConfig struct {
	lifetime int
	roles    []string
	keyName  string
}

func (c mockConfig) GetSessionLifetime() int {
	if c.lifetime == 0 {
		return 24
	}
	return c.lifetime
}

func (c mockConfig) GetRegistrationRoles() []string {
	if len(c.roles) == 0 {
		return []string{members.RoleMember}
	}
	return c.roles
}

func (c mockConfig) GetVerificationKeyName() string {
	return c.keyName
}
