package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friendship is the materialized symmetric edge set. Rows exist in pairs:
// (A,B) implies (B,A). Both directions are written and deleted in the same
// transaction, never recomputed from invitations at read time.
type Friendship struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SourceID  uuid.UUID `gorm:"column:source_id;type:uuid;not null;uniqueIndex:friendships_source_target_key;index:friendships_source_id_idx"`
	TargetID  uuid.UUID `gorm:"column:target_id;type:uuid;not null;uniqueIndex:friendships_source_target_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements the gorm naming override.
func (Friendship) TableName() string { return "friendships" }

func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
