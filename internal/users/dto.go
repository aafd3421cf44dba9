package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

// CreateUserDTO carries the persistence-ready fields for a new user row.
// Identity validation happens in the factory before this is built.
type CreateUserDTO struct {
	Username       *string
	PasswordHash   string
	Nickname       *string
	BirthYear      *int
	Gender         enums.Gender
	Country        string
	City           string
	TimeZone       string
	Language       string
	IsFacebookUser bool
	IsStaff        bool
	IsSuperuser    bool
}

// ToModel converts the DTO into a persistable user model.
func (d CreateUserDTO) ToModel() *models.User {
	gender := d.Gender
	if gender == "" {
		gender = enums.GenderUnspecified
	}
	return &models.User{
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		Nickname:       d.Nickname,
		BirthYear:      d.BirthYear,
		Gender:         gender,
		Country:        d.Country,
		City:           d.City,
		TimeZone:       d.TimeZone,
		Language:       d.Language,
		IsFacebookUser: d.IsFacebookUser,
		IsStaff:        d.IsStaff,
		IsActive:       true,
		IsSuperuser:    d.IsSuperuser,
	}
}

// CreateFacebookProfileDTO links an external identity to a freshly created user.
type CreateFacebookProfileDTO struct {
	UserID         uuid.UUID
	FacebookUserID string
	Email          *string
}

// ToModel converts the DTO into a persistable facebook profile model.
func (d CreateFacebookProfileDTO) ToModel() *models.FacebookUserProfile {
	return &models.FacebookUserProfile{
		UserID:         d.UserID,
		FacebookUserID: d.FacebookUserID,
		Email:          d.Email,
	}
}

// UserDTO is the API-facing projection of a user record.
type UserDTO struct {
	ID             uuid.UUID    `json:"id"`
	Username       *string      `json:"username,omitempty"`
	Nickname       *string      `json:"nickname,omitempty"`
	BirthYear      *int         `json:"birth_year,omitempty"`
	Gender         enums.Gender `json:"gender"`
	Country        string       `json:"country"`
	City           string       `json:"city,omitempty"`
	TimeZone       string       `json:"time_zone"`
	Language       string       `json:"language"`
	ProfileImage   *string      `json:"profile_image,omitempty"`
	GemTotalCount  int          `json:"gem_total_count"`
	IsFacebookUser bool         `json:"is_facebook_user"`
	IsVIP          bool         `json:"is_vip"`
	FacebookUserID *string      `json:"facebook_user_id,omitempty"`
	DateJoined     time.Time    `json:"date_joined"`
}

// FromModel maps a user model (with optional preloaded facebook profile) to
// its API projection.
func FromModel(user *models.User) UserDTO {
	dto := UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Nickname:       user.Nickname,
		BirthYear:      user.BirthYear,
		Gender:         user.Gender,
		Country:        user.Country,
		City:           user.City,
		TimeZone:       user.TimeZone,
		Language:       user.Language,
		ProfileImage:   user.ProfileImage,
		GemTotalCount:  user.GemTotalCount,
		IsFacebookUser: user.IsFacebookUser,
		IsVIP:          user.IsVIP,
		DateJoined:     user.DateJoined,
	}
	if user.FacebookProfile != nil {
		fbID := user.FacebookProfile.FacebookUserID
		dto.FacebookUserID = &fbID
	}
	return dto
}
