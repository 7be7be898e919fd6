package members

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ProfileUpdate carries the editable fields of a profile save. Meta holds
// additional named values the caller wants persisted alongside the account.
type ProfileUpdate struct {
	Displayname string            `json:"displayname"`
	Email       string            `json:"email"`
	Password    string            `json:"password,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

func (p ProfileUpdate) Type() string { return "members.profile.update" }

// Validate implements the validatable contract.
func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Displayname, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.Password, validation.Length(6, 100)),
	)
}

// Registration carries the submitted registration fields. Password is
// optional: provider-backed signups have none.
type Registration struct {
	Displayname string `json:"displayname"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
}

func (r Registration) Type() string { return "members.profile.register" }

// Validate implements the validatable contract.
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Displayname, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Length(6, 100)),
	)
}

// ProfileManager orchestrates account provisioning: registration, profile
// saves, and password recovery. Each persistence step is a separate call to
// the Records collaborator; the sequence is not transactional. When a later
// step fails the error propagates to the caller and earlier writes stay
// committed.
type ProfileManager struct {
	config     Config
	records    Records
	dispatcher Dispatcher
	session    *Session
	logger     Logger
}

// ProfileManagerOption configures a ProfileManager.
type ProfileManagerOption func(*ProfileManager)

// WithLogger overrides the default logger.
func WithLogger(l Logger) ProfileManagerOption {
	return func(m *ProfileManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewProfileManager creates the provisioning workflow for one request
// scoped session.
func NewProfileManager(config Config, records Records, dispatcher Dispatcher, session *Session, opts ...ProfileManagerOption) *ProfileManager {
	m := &ProfileManager{
		config:     config,
		records:    records,
		dispatcher: normalizeDispatcher(dispatcher),
		session:    session,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// SaveProfile applies a profile edit to an existing account. The account
// must already carry a guid; calling this with an unsaved account is a
// programming error.
func (m *ProfileManager) SaveProfile(ctx context.Context, account *Account, update ProfileUpdate) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during profile save")
	default:
		return m.saveProfile(ctx, account, update)
	}
}

func (m *ProfileManager) saveProfile(ctx context.Context, account *Account, update ProfileUpdate) error {
	if account == nil || account.GUID == uuid.Nil {
		return ErrGuidNotSet
	}

	if err := update.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile data")
	}

	account.Displayname = update.Displayname
	account.Email = update.Email

	event := NewProfileEvent(ProfilePreSave, account)
	for name, value := range update.Meta {
		event.AddMetaValue(name, value)
	}

	if err := m.dispatcher.Dispatch(ctx, event); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "profile pre-save dispatch failed")
	}

	if err := m.records.SaveAccount(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist account")
	}

	if update.Password != "" {
		if err := m.saveCredential(ctx, account.GUID, update.Password); err != nil {
			return err
		}
	}

	if err := m.saveMetaFields(ctx, account.GUID, event); err != nil {
		return err
	}

	event.EventType = ProfilePostSave
	if err := m.dispatcher.Dispatch(ctx, event); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "profile post-save dispatch failed")
	}

	return nil
}

// Register provisions a new account from the submitted registration data
// and binds the provider identity to it. When the session carries a
// transitional provider its token and draft link are converted in place;
// otherwise the token is acquired from the given provider with
// password-grant semantics. Callers should bound that exchange with a ctx
// timeout. A provider failure surfaces before any Authorisation is created.
func (m *ProfileManager) Register(ctx context.Context, reg Registration, provider Provider, providerName string) (*Account, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during registration")
	default:
		return m.register(ctx, reg, provider, providerName)
	}
}

func (m *ProfileManager) register(ctx context.Context, reg Registration, provider Provider, providerName string) (*Account, error) {
	if err := reg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration data")
	}

	account, err := m.records.CreateAccount(ctx, reg.Displayname, reg.Email, m.config.GetRegistrationRoles())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
	}

	event := NewProfileEvent(ProfileRegister, account)

	if err := m.createVerificationKey(ctx, event, account.GUID); err != nil {
		return nil, err
	}

	if reg.Password != "" {
		if err := m.saveCredential(ctx, account.GUID, reg.Password); err != nil {
			return nil, err
		}
	}

	var token AccessToken
	if m.session.IsTransitional() {
		token, err = m.convertTransitionalProvider(ctx, account.GUID)
		if err != nil {
			return nil, err
		}
	} else {
		if provider == nil {
			return nil, ErrProviderExchange
		}
		token, err = provider.PasswordGrant(ctx, reg.Email, reg.Password)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "provider token exchange failed").
				WithTextCode(TextCodeProviderExchange)
		}
	}

	m.session.
		AddAccessToken(providerName, token).
		CreateAuthorisation(account.GUID.String())

	if err := m.dispatcher.Dispatch(ctx, event); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "registration dispatch failed")
	}

	return account, nil
}

// SaveRecovery replaces the password hash of an existing local credential.
// Accounts without a credential authenticate only through a third-party
// provider, so recovery against them is a no-op, not an error.
func (m *ProfileManager) SaveRecovery(ctx context.Context, guid uuid.UUID, password string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password recovery")
	default:
		return m.saveRecovery(ctx, guid, password)
	}
}

func (m *ProfileManager) saveRecovery(ctx context.Context, guid uuid.UUID, password string) error {
	credential, err := m.records.GetCredentialByGuid(ctx, guid)
	if err != nil {
		if goerrors.IsNotFound(err) {
			m.logger.Debug("no credential for %s, skipping recovery", guid)
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve credential")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	credential.PasswordHash = hash
	if err := m.records.SaveCredential(ctx, credential); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist credential")
	}

	return nil
}

// VerifyAccount consumes the emailed verification key: on a match the
// account is marked verified and the key is blanked so it cannot be replayed.
// A mismatch or a missing key leaves the account unchanged.
func (m *ProfileManager) VerifyAccount(ctx context.Context, account *Account, key string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account verification")
	default:
		return m.verifyAccount(ctx, account, key)
	}
}

func (m *ProfileManager) verifyAccount(ctx context.Context, account *Account, key string) error {
	if account == nil || account.GUID == uuid.Nil {
		return ErrGuidNotSet
	}

	keyName := m.config.GetVerificationKeyName()
	if keyName == "" {
		keyName = AccountVerificationKeyName
	}

	meta, err := m.records.GetAccountMeta(ctx, account.GUID, keyName)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrVerificationFailed
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve verification key")
	}

	if meta.Value == "" || subtle.ConstantTimeCompare([]byte(meta.Value), []byte(key)) != 1 {
		return ErrVerificationFailed
	}

	account.Verified = true
	if err := m.records.SaveAccount(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist account")
	}

	// the key is single use
	meta.Value = ""
	if err := m.records.SaveAccountMeta(ctx, meta); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear verification key")
	}

	return nil
}

// saveCredential bootstraps or updates the local credential for an account,
// creating the credential and its local provider link on first use.
func (m *ProfileManager) saveCredential(ctx context.Context, guid uuid.UUID, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	credential, err := m.records.GetCredentialByResourceOwnerID(ctx, guid.String())
	if err != nil {
		if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve credential")
		}

		credential, err = m.records.CreateCredential(ctx, guid, guid.String(), true)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create credential")
		}

		if _, err := m.records.CreateProviderLink(ctx, guid, LocalProviderName, guid.String()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create local provider link")
		}
	}

	credential.PasswordHash = hash
	if err := m.records.SaveCredential(ctx, credential); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist credential")
	}

	return nil
}

// saveMetaFields persists every meta field the event accumulated, creating
// entries on first write.
func (m *ProfileManager) saveMetaFields(ctx context.Context, guid uuid.UUID, event *ProfileEvent) error {
	for name, value := range event.MetaFields() {
		meta, err := m.records.GetAccountMeta(ctx, guid, name)
		if err != nil {
			if !goerrors.IsNotFound(err) {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account meta")
			}
			meta = &AccountMeta{GUID: guid, Meta: name}
		}

		meta.Value = value
		if err := m.records.SaveAccountMeta(ctx, meta); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist account meta")
		}
	}
	return nil
}

// createVerificationKey issues the single-use email verification key,
// stores it as account meta, and attaches it to the event payload so a
// downstream mailer can deliver it.
func (m *ProfileManager) createVerificationKey(ctx context.Context, event *ProfileEvent, guid uuid.UUID) error {
	keyName := m.config.GetVerificationKeyName()
	if keyName == "" {
		keyName = AccountVerificationKeyName
	}

	sum := sha1.Sum([]byte(uuid.NewString()))
	value := hex.EncodeToString(sum[:])

	meta := &AccountMeta{
		GUID:  guid,
		Meta:  keyName,
		Value: value,
	}
	if err := m.records.SaveAccountMeta(ctx, meta); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist verification key")
	}

	event.AddMetaValue(keyName, value)

	return nil
}

// convertTransitionalProvider converts the session stored transitional
// provider into a persisted link bound to the new account guid, then clears
// the slot.
func (m *ProfileManager) convertTransitionalProvider(ctx context.Context, guid uuid.UUID) (AccessToken, error) {
	tp := m.session.GetTransitionalProvider()
	token := tp.GetAccessToken()

	link := tp.GetProviderEntity()
	link.GUID = guid
	link.Touch()

	if err := m.records.SaveProviderLink(ctx, link); err != nil {
		return AccessToken{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist provider link")
	}

	m.session.RemoveTransitionalProvider()

	return token, nil
}
