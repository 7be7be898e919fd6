package members_test

import (
	"testing"
	"time"

	members "github.com/goliatone/go-members"
	"github.com/stretchr/testify/assert"
)

func TestAccountRoleHelpers(t *testing.T) {
	account := &members.Account{Roles: []string{members.RoleMember}}

	assert.True(t, account.HasRole(members.RoleMember))
	assert.False(t, account.HasRole(members.RoleAdmin))

	account.AddRole(members.RoleAdmin)
	assert.True(t, account.HasRole(members.RoleAdmin))

	// adding an existing role is a no-op
	account.AddRole(members.RoleAdmin)
	assert.Len(t, account.Roles, 2)
}

func TestProviderLinkTouch(t *testing.T) {
	link := &members.ProviderLink{Provider: "google", ResourceOwnerID: "remote-123"}
	assert.Nil(t, link.LastUpdate)

	link.Touch()

	if assert.NotNil(t, link.LastUpdate) {
		assert.WithinDuration(t, time.Now(), *link.LastUpdate, time.Second)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   members.AccessToken
		expired bool
	}{
		{
			name:    "no expiry metadata",
			token:   members.AccessToken{Token: "t"},
			expired: false,
		},
		{
			name:    "expiry in the past",
			token:   members.AccessToken{Token: "t", ExpiresAt: &past},
			expired: true,
		},
		{
			name:    "expiry in the future",
			token:   members.AccessToken{Token: "t", ExpiresAt: &future},
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.token.Expired())
		})
	}
}

func TestProfileEventMetaFields(t *testing.T) {
	event := members.NewProfileEvent(members.ProfilePreSave, &members.Account{})

	event.AddMetaValue("newsletter", "weekly").
		AddMetaValue("locale", "en_GB")

	fields := event.MetaFields()
	assert.Equal(t, "weekly", fields["newsletter"])
	assert.Equal(t, "en_GB", fields["locale"])
	assert.ElementsMatch(t, []string{"newsletter", "locale"}, event.MetaFieldNames())

	// last write wins
	event.AddMetaValue("newsletter", "daily")
	assert.Equal(t, "daily", event.MetaFields()["newsletter"])
}
