package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

// Report is the directed abuse-report edge, immutable once created. The
// screenshot field stores a blob reference only, never raw bytes.
type Report struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SourceID   uuid.UUID        `gorm:"column:source_id;type:uuid;not null;uniqueIndex:reports_source_target_key;index:reports_source_id_idx"`
	TargetID   uuid.UUID        `gorm:"column:target_id;type:uuid;not null;uniqueIndex:reports_source_target_key;index:reports_target_id_idx"`
	Type       enums.ReportType `gorm:"column:type;type:varchar(16);not null"`
	Screenshot *string          `gorm:"column:screenshot"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements the gorm naming override.
func (Report) TableName() string { return "reports" }

func (r *Report) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
