package users

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

func strPtr(value string) *string { return &value }

func TestDisplayIdentityLocal(t *testing.T) {
	label, err := DisplayIdentity(&models.User{Username: strPtr("alice")})
	require.NoError(t, err)
	assert.Equal(t, "type: local / username: alice", label)
}

func TestDisplayIdentitySuperuser(t *testing.T) {
	label, err := DisplayIdentity(&models.User{Username: strPtr("root"), IsSuperuser: true})
	require.NoError(t, err)
	assert.Equal(t, "type: superuser / username: root", label)
}

func TestDisplayIdentityFacebook(t *testing.T) {
	user := &models.User{
		IsFacebookUser:  true,
		FacebookProfile: &models.FacebookUserProfile{FacebookUserID: "ext-42"},
	}
	label, err := DisplayIdentity(user)
	require.NoError(t, err)
	assert.Contains(t, label, "ext-42")
	assert.Equal(t, "type: facebook / facebook_user_id: ext-42", label)
}

func TestDisplayIdentityUnresolvable(t *testing.T) {
	_, err := DisplayIdentity(&models.User{IsFacebookUser: true})
	assert.ErrorIs(t, err, ErrInconsistentIdentity)

	_, err = DisplayIdentity(nil)
	assert.ErrorIs(t, err, ErrInconsistentIdentity)
}

func TestRequiredFieldsComplete(t *testing.T) {
	year := 1990
	user := &models.User{Username: strPtr("alice")}

	assert.False(t, RequiredFieldsComplete(user))

	user.BirthYear = &year
	assert.False(t, RequiredFieldsComplete(user), "gender still unset")

	user.Gender = enums.GenderUnspecified
	assert.False(t, RequiredFieldsComplete(user), "unspecified does not count as set")

	user.Gender = enums.GenderFemale
	assert.True(t, RequiredFieldsComplete(user))

	user.BirthYear = nil
	assert.False(t, RequiredFieldsComplete(user))
}

func TestGetShortName(t *testing.T) {
	id := uuid.MustParse("4d9e2f6a-0000-0000-0000-000000000000")

	assert.Equal(t, "nick", GetShortName(&models.User{Nickname: strPtr("nick"), Username: strPtr("alice")}))
	assert.Equal(t, "alice", GetShortName(&models.User{Username: strPtr("alice")}))
	assert.Equal(t, "user-4d9e2f6a", GetShortName(&models.User{ID: id, IsFacebookUser: true}))
	assert.Equal(t, "", GetShortName(nil))
}
