package members_test

import (
	"testing"
	"time"

	members "github.com/goliatone/go-members"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAuthorisation(t *testing.T) {
	session := members.NewSession(mockConfig{lifetime: 6})
	guid := uuid.NewString()

	assert.False(t, session.HasAuthorisation())

	auth := session.CreateAuthorisation(guid)
	require.NotNil(t, auth)
	assert.True(t, session.HasAuthorisation())
	assert.Same(t, auth, session.GetAuthorisation())

	assert.Equal(t, guid, auth.Guid())
	assert.NotEmpty(t, auth.Cookie())

	expected := time.Now().Add(6 * time.Hour)
	assert.WithinDuration(t, expected, auth.Expiry(), time.Minute)
}

func TestCreateAuthorisationReusesExisting(t *testing.T) {
	session := members.NewSession(mockConfig{})
	session.AddAccessToken("github", members.AccessToken{Token: "gh-token"})

	auth := session.CreateAuthorisation(uuid.NewString())

	token, err := auth.GetAccessToken("github")
	require.NoError(t, err)
	assert.Equal(t, "gh-token", token.Token)
}

func TestAddAccessTokenCreatesAuthorisation(t *testing.T) {
	session := members.NewSession(mockConfig{})
	assert.False(t, session.HasAuthorisation())

	session.AddAccessToken("google", members.AccessToken{Token: "g-token"})
	assert.True(t, session.HasAuthorisation())
}

func TestSetAuthorisationRestoresState(t *testing.T) {
	session := members.NewSession(mockConfig{})

	auth := members.NewAuthorisation().SetGuid(uuid.NewString())
	session.SetAuthorisation(auth)

	assert.True(t, session.HasAuthorisation())
	assert.Same(t, auth, session.GetAuthorisation())
}

func TestIsTransitional(t *testing.T) {
	session := members.NewSession(mockConfig{})
	assert.False(t, session.IsTransitional())

	tp := members.NewTransitionalProvider(
		members.AccessToken{Token: "g-token"},
		&members.ProviderLink{Provider: "google", ResourceOwnerID: "remote-123"},
	)
	session.SetTransitionalProvider(tp)
	assert.True(t, session.IsTransitional())

	// once an authorisation exists the session is no longer transitional
	session.CreateAuthorisation(uuid.NewString())
	assert.False(t, session.IsTransitional())
}

func TestTransitionalProviderOneShotConsumption(t *testing.T) {
	session := members.NewSession(mockConfig{})

	token := members.AccessToken{Token: "g-token"}
	entity := &members.ProviderLink{Provider: "google", ResourceOwnerID: "remote-123"}
	session.SetTransitionalProvider(members.NewTransitionalProvider(token, entity))

	tp := session.GetTransitionalProvider()
	require.NotNil(t, tp)
	assert.Equal(t, token, tp.GetAccessToken())
	assert.Same(t, entity, tp.GetProviderEntity())

	session.RemoveTransitionalProvider()
	assert.Nil(t, session.GetTransitionalProvider())
	assert.False(t, session.IsTransitional())
}
