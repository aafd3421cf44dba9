package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendInvitation is the directed invite edge. IsAccepted flips from false to
// true exactly once; acceptance also materializes both Friendship directions.
type FriendInvitation struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SourceID   uuid.UUID `gorm:"column:source_id;type:uuid;not null;uniqueIndex:friend_invitations_source_target_key;index:friend_invitations_source_id_idx"`
	TargetID   uuid.UUID `gorm:"column:target_id;type:uuid;not null;uniqueIndex:friend_invitations_source_target_key;index:friend_invitations_target_id_idx"`
	IsAccepted bool      `gorm:"column:is_accepted;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements the gorm naming override.
func (FriendInvitation) TableName() string { return "friend_invitations" }

func (f *FriendInvitation) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
