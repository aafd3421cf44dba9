package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacebookUserProfile stores the provider-side identity for facebook-mode
// users. It is owned 1:1 by its User and deleted with it.
type FacebookUserProfile struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:facebook_user_profiles_user_id_key"`
	FacebookUserID string    `gorm:"column:facebook_user_id;type:varchar(128);not null"`
	Email          *string   `gorm:"column:email;uniqueIndex:facebook_user_profiles_email_key"`
}

// TableName implements the gorm naming override.
func (FacebookUserProfile) TableName() string { return "facebook_user_profiles" }

func (p *FacebookUserProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
