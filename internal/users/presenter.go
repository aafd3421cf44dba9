package users

import (
	"fmt"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

// DisplayIdentity derives the human-readable identity label shown in admin
// tooling and logs. The format distinguishes the three account shapes:
//
//	type: superuser / username: alice
//	type: local / username: bob
//	type: facebook / facebook_user_id: ext-42
//
// A user matching none of the shapes violates the creation invariant and is
// reported, not guessed at.
func DisplayIdentity(user *models.User) (string, error) {
	if user == nil {
		return "", ErrInconsistentIdentity
	}

	if user.Username != nil && *user.Username != "" {
		kind := "local"
		if user.IsSuperuser {
			kind = "superuser"
		}
		return fmt.Sprintf("type: %s / username: %s", kind, *user.Username), nil
	}

	if user.IsFacebookUser && user.FacebookProfile != nil && user.FacebookProfile.FacebookUserID != "" {
		return fmt.Sprintf("type: facebook / facebook_user_id: %s", user.FacebookProfile.FacebookUserID), nil
	}

	return "", ErrInconsistentIdentity
}

// RequiredFieldsComplete reports whether the profile carries everything the
// matching features need: both birth_year and gender must be filled in.
func RequiredFieldsComplete(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.BirthYear != nil && user.Gender != "" && user.Gender != enums.GenderUnspecified
}

// GetShortName returns the casual display handle: nickname when set, then
// username, then a truncated id fallback for facebook accounts.
func GetShortName(user *models.User) string {
	if user == nil {
		return ""
	}
	if user.Nickname != nil && *user.Nickname != "" {
		return *user.Nickname
	}
	if user.Username != nil && *user.Username != "" {
		return *user.Username
	}
	return "user-" + user.ID.String()[:8]
}
