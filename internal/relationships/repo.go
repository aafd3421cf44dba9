package relationships

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
	"github.com/joonseokim/peerlink-backend/pkg/pagination"
)

// Repository exposes the persistence surface for the relationship graph.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	UserExistsActive(ctx context.Context, id uuid.UUID) (bool, error)

	CreateInvitation(ctx context.Context, sourceID, targetID uuid.UUID) (*models.FriendInvitation, error)
	FindInvitation(ctx context.Context, sourceID, targetID uuid.UUID) (*models.FriendInvitation, error)
	MarkInvitationAccepted(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error)
	DeletePendingInvitation(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error)
	ListOutgoingInvitations(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FriendInvitation, error)
	ListIncomingInvitations(ctx context.Context, targetID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FriendInvitation, error)

	InsertFriendshipIfAbsent(ctx context.Context, sourceID, targetID uuid.UUID) (*models.Friendship, error)
	DeleteFriendshipPair(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error)
	ListFriendships(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Friendship, error)

	UpsertManaged(ctx context.Context, sourceID, targetID uuid.UUID, kind enums.ManagedFriendshipType) (*models.ManagedFriendship, error)
	DeleteManaged(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error)
	ListManaged(ctx context.Context, sourceID uuid.UUID, kind *enums.ManagedFriendshipType, cursor *pagination.Cursor, limit int) ([]models.ManagedFriendship, error)
	ListManagedReceived(ctx context.Context, targetID uuid.UUID, kind *enums.ManagedFriendshipType, cursor *pagination.Cursor, limit int) ([]models.ManagedFriendship, error)

	InsertThumbsUpIfAbsent(ctx context.Context, sourceID, targetID uuid.UUID) (*models.ThumbsUp, error)
	CountThumbsUpsReceived(ctx context.Context, targetID uuid.UUID) (int64, error)
	ListThumbsUpsSent(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ThumbsUp, error)
	ListThumbsUpsReceived(ctx context.Context, targetID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ThumbsUp, error)

	CreateReport(ctx context.Context, report *models.Report) (*models.Report, error)
	ListReportsFiled(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Report, error)
	ListReportsReceived(ctx context.Context, targetID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Report, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a relationship graph repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UserExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateInvitation(ctx context.Context, sourceID, targetID uuid.UUID) (*models.FriendInvitation, error) {
	invitation := &models.FriendInvitation{SourceID: sourceID, TargetID: targetID}
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *repository) FindInvitation(ctx context.Context, sourceID, targetID uuid.UUID) (*models.FriendInvitation, error) {
	var invitation models.FriendInvitation
	err := r.db.WithContext(ctx).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// MarkInvitationAccepted flips is_accepted with a pending-state guard so the
// transition happens at most once even under concurrent accepts.
func (r *repository) MarkInvitationAccepted(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FriendInvitation{}).
		Where("source_id = ? AND target_id = ? AND is_accepted = ?", sourceID, targetID, false).
		Update("is_accepted", true)
	return result.RowsAffected, result.Error
}

func (r *repository) DeletePendingInvitation(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("source_id = ? AND target_id = ? AND is_accepted = ?", sourceID, targetID, false).
		Delete(&models.FriendInvitation{})
	return result.RowsAffected, result.Error
}

func (r *repository) ListOutgoingInvitations(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FriendInvitation, error) {
	var rows []models.FriendInvitation
	query := applyCursor(r.db.WithContext(ctx).Where("source_id = ?", sourceID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListIncomingInvitations(ctx context.Context, targetID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FriendInvitation, error) {
	var rows []models.FriendInvitation
	query := applyCursor(r.db.WithContext(ctx).Where("target_id = ?", targetID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertFriendshipIfAbsent tolerates an already-materialized edge. Mutual
// invitations accepted in either order converge on the same two rows.
func (r *repository) InsertFriendshipIfAbsent(ctx context.Context, sourceID, targetID uuid.UUID) (*models.Friendship, error) {
	friendship := &models.Friendship{SourceID: sourceID, TargetID: targetID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(friendship).Error
	if err != nil {
		return nil, err
	}

	var stored models.Friendship
	err = r.db.WithContext(ctx).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteFriendshipPair removes both directions of the symmetric edge.
func (r *repository) DeleteFriendshipPair(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(source_id = ? AND target_id = ?) OR (source_id = ? AND target_id = ?)",
			sourceID, targetID, targetID, sourceID).
		Delete(&models.Friendship{})
	return result.RowsAffected, result.Error
}

func (r *repository) ListFriendships(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Friendship, error) {
	var rows []models.Friendship
	query := applyCursor(r.db.WithContext(ctx).Where("source_id = ?", sourceID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertManaged keeps at most one annotation per ordered pair; a second
// annotate replaces the type in place via the pair unique index.
func (r *repository) UpsertManaged(ctx context.Context, sourceID, targetID uuid.UUID, kind enums.ManagedFriendshipType) (*models.ManagedFriendship, error) {
	edge := &models.ManagedFriendship{SourceID: sourceID, TargetID: targetID, Type: kind}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}, {Name: "target_id"}},
			DoUpdates: clause.Assignments(map[string]any{"type": kind}),
		}).
		Create(edge).Error
	if err != nil {
		return nil, err
	}
	return r.findManaged(ctx, sourceID, targetID)
}

func (r *repository) findManaged(ctx context.Context, sourceID, targetID uuid.UUID) (*models.ManagedFriendship, error) {
	var edge models.ManagedFriendship
	err := r.db.WithContext(ctx).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *repository) DeleteManaged(ctx context.Context, sourceID, targetID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).
		Delete(&models.ManagedFriendship{})
	return result.RowsAffected, result.Error
}

func (r *repository) ListManaged(ctx context.Context, sourceID uuid.UUID, kind *enums.ManagedFriendshipType, cursor *pagination.Cursor, limit int) ([]models.ManagedFriendship, error) {
	query := r.db.WithContext(ctx).Where("source_id = ?", sourceID)
	if kind != nil {
		query = query.Where("type = ?", *kind)
	}
	query = applyCursor(query, cursor, limit)

	var rows []models.ManagedFriendship
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListManagedReceived(ctx context.Context, targetID uuid.UUID, kind *enums.ManagedFriendshipType, cursor *pagination.Cursor, limit int) ([]models.ManagedFriendship, error) {
	query := r.db.WithContext(ctx).Where("target_id = ?", targetID)
	if kind != nil {
		query = query.Where("type = ?", *kind)
	}
	query = applyCursor(query, cursor, limit)

	var rows []models.ManagedFriendship
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertThumbsUpIfAbsent relies on ON CONFLICT DO NOTHING so a repeat send is
// a silent no-op with no duplicate row and no error.
func (r *repository) InsertThumbsUpIfAbsent(ctx context.Context, sourceID, targetID uuid.UUID) (*models.ThumbsUp, error) {
	edge := &models.ThumbsUp{SourceID: sourceID, TargetID: targetID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(edge).Error
	if err != nil {
		return nil, err
	}

	var stored models.ThumbsUp
	err = r.db.WithContext(ctx).
		Where("source_id = ? AND target_id = ?", sourceID, targetID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *repository) CountThumbsUpsReceived(ctx context.Context, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ThumbsUp{}).
		Where("target_id = ?", targetID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListThumbsUpsSent(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ThumbsUp, error) {
	var rows []models.ThumbsUp
	query := applyCursor(r.db.WithContext(ctx).Where("source_id = ?", sourceID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListThumbsUpsReceived(ctx context.Context, targetID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ThumbsUp, error) {
	var rows []models.ThumbsUp
	query := applyCursor(r.db.WithContext(ctx).Where("target_id = ?", targetID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateReport(ctx context.Context, report *models.Report) (*models.Report, error) {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *repository) ListReportsFiled(ctx context.Context, sourceID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Report, error) {
	var rows []models.Report
	query := applyCursor(r.db.WithContext(ctx).Where("source_id = ?", sourceID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListReportsReceived(ctx context.Context, targetID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Report, error) {
	var rows []models.Report
	query := applyCursor(r.db.WithContext(ctx).Where("target_id = ?", targetID), cursor, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyCursor pages in creation order, newest first, tie-broken by id.
func applyCursor(query *gorm.DB, cursor *pagination.Cursor, limit int) *gorm.DB {
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	return query.Order("created_at DESC, id DESC").Limit(limit)
}
