package relationships

import (
	"time"

	"github.com/google/uuid"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
)

// InvitationDTO is the API-facing projection of a friend invitation edge.
type InvitationDTO struct {
	ID         uuid.UUID `json:"id"`
	SourceID   uuid.UUID `json:"source_id"`
	TargetID   uuid.UUID `json:"target_id"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func invitationFromModel(m *models.FriendInvitation) InvitationDTO {
	return InvitationDTO{
		ID:         m.ID,
		SourceID:   m.SourceID,
		TargetID:   m.TargetID,
		IsAccepted: m.IsAccepted,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FriendshipDTO is one direction of the materialized symmetric edge.
type FriendshipDTO struct {
	ID        uuid.UUID `json:"id"`
	SourceID  uuid.UUID `json:"source_id"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

func friendshipFromModel(m *models.Friendship) FriendshipDTO {
	return FriendshipDTO{
		ID:        m.ID,
		SourceID:  m.SourceID,
		TargetID:  m.TargetID,
		CreatedAt: m.CreatedAt,
	}
}

// ManagedFriendshipDTO is the API-facing projection of an annotation edge.
type ManagedFriendshipDTO struct {
	ID        uuid.UUID                   `json:"id"`
	SourceID  uuid.UUID                   `json:"source_id"`
	TargetID  uuid.UUID                   `json:"target_id"`
	Type      enums.ManagedFriendshipType `json:"type"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func managedFromModel(m *models.ManagedFriendship) ManagedFriendshipDTO {
	return ManagedFriendshipDTO{
		ID:        m.ID,
		SourceID:  m.SourceID,
		TargetID:  m.TargetID,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ThumbsUpDTO is the API-facing projection of an approval edge.
type ThumbsUpDTO struct {
	ID        uuid.UUID `json:"id"`
	SourceID  uuid.UUID `json:"source_id"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

func thumbsUpFromModel(m *models.ThumbsUp) ThumbsUpDTO {
	return ThumbsUpDTO{
		ID:        m.ID,
		SourceID:  m.SourceID,
		TargetID:  m.TargetID,
		CreatedAt: m.CreatedAt,
	}
}

// ReportDTO is the API-facing projection of an abuse report.
type ReportDTO struct {
	ID         uuid.UUID        `json:"id"`
	SourceID   uuid.UUID        `json:"source_id"`
	TargetID   uuid.UUID        `json:"target_id"`
	Type       enums.ReportType `json:"type"`
	Screenshot *string          `json:"screenshot,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func reportFromModel(m *models.Report) ReportDTO {
	return ReportDTO{
		ID:         m.ID,
		SourceID:   m.SourceID,
		TargetID:   m.TargetID,
		Type:       m.Type,
		Screenshot: m.Screenshot,
		CreatedAt:  m.CreatedAt,
	}
}

// Page wraps a cursor page of edge projections.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}
