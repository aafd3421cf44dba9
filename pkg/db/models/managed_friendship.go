package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

// ManagedFriendship is the directed annotation edge (bookmarked, hidden,
// blocked). Re-annotating a pair replaces the type instead of adding a row.
type ManagedFriendship struct {
	ID        uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	SourceID  uuid.UUID                   `gorm:"column:source_id;type:uuid;not null;uniqueIndex:managed_friendships_source_target_key;index:managed_friendships_source_id_idx"`
	TargetID  uuid.UUID                   `gorm:"column:target_id;type:uuid;not null;uniqueIndex:managed_friendships_source_target_key"`
	Type      enums.ManagedFriendshipType `gorm:"column:type;type:varchar(16);not null"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements the gorm naming override.
func (ManagedFriendship) TableName() string { return "managed_friendships" }

func (m *ManagedFriendship) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
