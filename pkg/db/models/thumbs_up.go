package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThumbsUp is the directed approval edge. Sending twice is a no-op, enforced
// by the pair uniqueness plus insert-if-absent semantics in the repository.
type ThumbsUp struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SourceID  uuid.UUID `gorm:"column:source_id;type:uuid;not null;uniqueIndex:thumbsups_source_target_key;index:thumbsups_source_id_idx"`
	TargetID  uuid.UUID `gorm:"column:target_id;type:uuid;not null;uniqueIndex:thumbsups_source_target_key;index:thumbsups_target_id_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements the gorm naming override.
func (ThumbsUp) TableName() string { return "thumbsups" }

func (t *ThumbsUp) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
