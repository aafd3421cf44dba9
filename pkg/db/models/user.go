package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

// User is the canonical identity record. Exactly one identity mode is set:
// either Username (local credentials) or IsFacebookUser with a linked
// FacebookUserProfile. Never both, never neither.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Username     *string   `gorm:"column:username;type:varchar(20);uniqueIndex:users_username_key"`
	PasswordHash string    `gorm:"column:password_hash;not null"`

	Nickname  *string      `gorm:"column:nickname;type:varchar(20);uniqueIndex:users_nickname_key"`
	BirthYear *int         `gorm:"column:birth_year"`
	Gender    enums.Gender `gorm:"column:gender;type:varchar(16);not null;default:unspecified"`

	Country  string `gorm:"column:country;type:varchar(2);not null"`
	City     string `gorm:"column:city;type:varchar(100)"`
	TimeZone string `gorm:"column:time_zone;type:varchar(50);not null"`
	Language string `gorm:"column:language;type:varchar(10);not null"`

	ProfileImage  *string `gorm:"column:profile_image"`
	GemTotalCount int     `gorm:"column:gem_total_count;not null;default:0"`

	IsFacebookUser bool `gorm:"column:is_facebook_user;not null;default:false"`
	IsVIP          bool `gorm:"column:is_vip;not null;default:false"`

	IsStaff     bool `gorm:"column:is_staff;not null;default:false"`
	IsActive    bool `gorm:"column:is_active;not null;default:true"`
	IsSuperuser bool `gorm:"column:is_superuser;not null;default:false"`

	DateJoined time.Time `gorm:"column:date_joined;autoCreateTime"`

	FacebookProfile *FacebookUserProfile `gorm:"foreignKey:UserID"`
}

// TableName implements the gorm naming override.
func (User) TableName() string { return "users" }

// BeforeCreate assigns the primary key client-side so inserts behave the same
// on postgres and the sqlite test driver.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
