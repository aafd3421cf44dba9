package relationships

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/db"
	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/metrics"
	"github.com/joonseokim/peerlink-backend/pkg/pagination"
)

// TxRunner abstracts the transactional boundary for the dual writes.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies for the relationship graph service.
type ServiceParams struct {
	TxRunner TxRunner
	Repo     Repository
	Metrics  *metrics.RelationshipMetrics
}

// Service implements the relationship graph operations: invitations and their
// acceptance into friendships, managed annotations, thumbs-ups, and reports.
type Service struct {
	txRunner TxRunner
	repo     Repository
	metrics  *metrics.RelationshipMetrics
}

// NewService builds the graph service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "repository required")
	}
	return &Service{
		txRunner: params.TxRunner,
		repo:     params.Repo,
		metrics:  params.Metrics,
	}, nil
}

// Invite creates a pending invitation edge. Duplicate detection rides on the
// pair unique constraint so concurrent invites cannot both succeed.
func (s *Service) Invite(ctx context.Context, sourceID, targetID uuid.UUID) (*InvitationDTO, error) {
	dto, err := s.invite(ctx, sourceID, targetID)
	s.observe("invite", err)
	return dto, err
}

func (s *Service) invite(ctx context.Context, sourceID, targetID uuid.UUID) (*InvitationDTO, error) {
	if sourceID == targetID {
		return nil, ErrSelfReference
	}
	if err := s.ensureEndpoints(ctx, sourceID, targetID); err != nil {
		return nil, err
	}

	invitation, err := s.repo.CreateInvitation(ctx, sourceID, targetID)
	if err != nil {
		if db.IsUniqueViolation(err, "friend_invitations") {
			return nil, ErrDuplicateInvitation
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invitation")
	}

	dto := invitationFromModel(invitation)
	return &dto, nil
}

// Accept flips the pending invitation and materializes both friendship
// directions in one transaction. A partial result is never observable.
func (s *Service) Accept(ctx context.Context, sourceID, targetID uuid.UUID) error {
	err := s.accept(ctx, sourceID, targetID)
	s.observe("accept", err)
	return err
}

func (s *Service) accept(ctx context.Context, sourceID, targetID uuid.UUID) error {
	if sourceID == targetID {
		return ErrSelfReference
	}

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		affected, err := repo.MarkInvitationAccepted(ctx, sourceID, targetID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "accept invitation")
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		if _, err := repo.InsertFriendshipIfAbsent(ctx, sourceID, targetID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create friendship edge")
		}
		if _, err := repo.InsertFriendshipIfAbsent(ctx, targetID, sourceID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create reverse friendship edge")
		}
		return nil
	})
}

// Decline deletes the pending edge, returning the pair to the unrelated state.
// Accepted invitations cannot be declined.
func (s *Service) Decline(ctx context.Context, sourceID, targetID uuid.UUID) error {
	err := s.decline(ctx, sourceID, targetID)
	s.observe("decline", err)
	return err
}

func (s *Service) decline(ctx context.Context, sourceID, targetID uuid.UUID) error {
	if sourceID == targetID {
		return ErrSelfReference
	}

	affected, err := s.repo.DeletePendingInvitation(ctx, sourceID, targetID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decline invitation")
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Unfriend deletes both directions of the friendship edge atomically. The
// accepted invitation row stays accepted; it never reverts.
func (s *Service) Unfriend(ctx context.Context, sourceID, targetID uuid.UUID) error {
	err := s.unfriend(ctx, sourceID, targetID)
	s.observe("unfriend", err)
	return err
}

func (s *Service) unfriend(ctx context.Context, sourceID, targetID uuid.UUID) error {
	if sourceID == targetID {
		return ErrSelfReference
	}

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).DeleteFriendshipPair(ctx, sourceID, targetID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete friendship pair")
		}
		if affected == 0 {
			return ErrFriendshipNotFound
		}
		return nil
	})
}

// Annotate upserts the managed annotation, replacing any prior type.
func (s *Service) Annotate(ctx context.Context, sourceID, targetID uuid.UUID, rawType string) (*ManagedFriendshipDTO, error) {
	dto, err := s.annotate(ctx, sourceID, targetID, rawType)
	s.observe("annotate", err)
	return dto, err
}

func (s *Service) annotate(ctx context.Context, sourceID, targetID uuid.UUID, rawType string) (*ManagedFriendshipDTO, error) {
	if sourceID == targetID {
		return nil, ErrSelfReference
	}
	kind, err := enums.ParseManagedFriendshipType(strings.TrimSpace(rawType))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid managed friendship type")
	}
	if err := s.ensureEndpoints(ctx, sourceID, targetID); err != nil {
		return nil, err
	}

	edge, err := s.repo.UpsertManaged(ctx, sourceID, targetID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert managed friendship")
	}
	dto := managedFromModel(edge)
	return &dto, nil
}

// Clear removes the managed annotation. Absence is not an error.
func (s *Service) Clear(ctx context.Context, sourceID, targetID uuid.UUID) error {
	err := s.clear(ctx, sourceID, targetID)
	s.observe("clear", err)
	return err
}

func (s *Service) clear(ctx context.Context, sourceID, targetID uuid.UUID) error {
	if sourceID == targetID {
		return ErrSelfReference
	}
	if _, err := s.repo.DeleteManaged(ctx, sourceID, targetID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear managed friendship")
	}
	return nil
}

// SendThumbsUp records the approval signal. Re-sending is idempotent: same
// observable state, no error, no duplicate row.
func (s *Service) SendThumbsUp(ctx context.Context, sourceID, targetID uuid.UUID) (*ThumbsUpDTO, error) {
	dto, err := s.sendThumbsUp(ctx, sourceID, targetID)
	s.observe("thumbsup", err)
	return dto, err
}

func (s *Service) sendThumbsUp(ctx context.Context, sourceID, targetID uuid.UUID) (*ThumbsUpDTO, error) {
	if sourceID == targetID {
		return nil, ErrSelfReference
	}
	if err := s.ensureEndpoints(ctx, sourceID, targetID); err != nil {
		return nil, err
	}

	edge, err := s.repo.InsertThumbsUpIfAbsent(ctx, sourceID, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send thumbs up")
	}
	dto := thumbsUpFromModel(edge)
	return &dto, nil
}

// FileReport creates the abuse report edge with an optional screenshot
// reference already uploaded to blob storage.
func (s *Service) FileReport(ctx context.Context, sourceID, targetID uuid.UUID, rawType string, screenshot *string) (*ReportDTO, error) {
	dto, err := s.fileReport(ctx, sourceID, targetID, rawType, screenshot)
	s.observe("report", err)
	return dto, err
}

func (s *Service) fileReport(ctx context.Context, sourceID, targetID uuid.UUID, rawType string, screenshot *string) (*ReportDTO, error) {
	if sourceID == targetID {
		return nil, ErrSelfReference
	}
	kind, err := enums.ParseReportType(strings.TrimSpace(rawType))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid report type")
	}
	if err := s.ensureEndpoints(ctx, sourceID, targetID); err != nil {
		return nil, err
	}

	report, err := s.repo.CreateReport(ctx, &models.Report{
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       kind,
		Screenshot: screenshot,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "reports") {
			return nil, ErrDuplicateReport
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create report")
	}

	dto := reportFromModel(report)
	return &dto, nil
}

// ListOutgoingInvitations pages through invitations sent by the user.
func (s *Service) ListOutgoingInvitations(ctx context.Context, sourceID uuid.UUID, params pagination.Params) (*Page[InvitationDTO], error) {
	return listPage(ctx, params, s.repo.ListOutgoingInvitations, sourceID, invitationFromModel, invitationCursor)
}

// ListIncomingInvitations pages through invitations received by the user.
func (s *Service) ListIncomingInvitations(ctx context.Context, targetID uuid.UUID, params pagination.Params) (*Page[InvitationDTO], error) {
	return listPage(ctx, params, s.repo.ListIncomingInvitations, targetID, invitationFromModel, invitationCursor)
}

// ListFriends pages through the user's materialized friendship edges.
func (s *Service) ListFriends(ctx context.Context, sourceID uuid.UUID, params pagination.Params) (*Page[FriendshipDTO], error) {
	return listPage(ctx, params, s.repo.ListFriendships, sourceID, friendshipFromModel, friendshipCursor)
}

// ListManaged pages through the user's annotations, optionally filtered by type.
func (s *Service) ListManaged(ctx context.Context, sourceID uuid.UUID, rawType string, params pagination.Params) (*Page[ManagedFriendshipDTO], error) {
	var kind *enums.ManagedFriendshipType
	if trimmed := strings.TrimSpace(rawType); trimmed != "" {
		parsed, err := enums.ParseManagedFriendshipType(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid managed friendship type")
		}
		kind = &parsed
	}

	fetch := func(ctx context.Context, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ManagedFriendship, error) {
		return s.repo.ListManaged(ctx, id, kind, cursor, limit)
	}
	return listPage(ctx, params, fetch, sourceID, managedFromModel, managedCursor)
}

// ListManagedReceived pages through annotations targeting the user,
// optionally filtered by type. Moderation surface; not exposed to the
// annotated user.
func (s *Service) ListManagedReceived(ctx context.Context, targetID uuid.UUID, rawType string, params pagination.Params) (*Page[ManagedFriendshipDTO], error) {
	var kind *enums.ManagedFriendshipType
	if trimmed := strings.TrimSpace(rawType); trimmed != "" {
		parsed, err := enums.ParseManagedFriendshipType(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid managed friendship type")
		}
		kind = &parsed
	}

	fetch := func(ctx context.Context, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ManagedFriendship, error) {
		return s.repo.ListManagedReceived(ctx, id, kind, cursor, limit)
	}
	return listPage(ctx, params, fetch, targetID, managedFromModel, managedCursor)
}

// ListThumbsUpsSent pages through approvals the user has sent.
func (s *Service) ListThumbsUpsSent(ctx context.Context, sourceID uuid.UUID, params pagination.Params) (*Page[ThumbsUpDTO], error) {
	return listPage(ctx, params, s.repo.ListThumbsUpsSent, sourceID, thumbsUpFromModel, thumbsUpCursor)
}

// ListThumbsUpsReceived pages through approvals the user has received.
func (s *Service) ListThumbsUpsReceived(ctx context.Context, targetID uuid.UUID, params pagination.Params) (*Page[ThumbsUpDTO], error) {
	return listPage(ctx, params, s.repo.ListThumbsUpsReceived, targetID, thumbsUpFromModel, thumbsUpCursor)
}

// CountThumbsUpsReceived returns the user's total received approvals.
func (s *Service) CountThumbsUpsReceived(ctx context.Context, targetID uuid.UUID) (int64, error) {
	count, err := s.repo.CountThumbsUpsReceived(ctx, targetID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count thumbs ups")
	}
	return count, nil
}

// ListReportsFiled pages through reports the user has filed.
func (s *Service) ListReportsFiled(ctx context.Context, sourceID uuid.UUID, params pagination.Params) (*Page[ReportDTO], error) {
	return listPage(ctx, params, s.repo.ListReportsFiled, sourceID, reportFromModel, reportCursor)
}

// ListReportsReceived pages through reports filed against the user.
// Moderation surface; not exposed to the reported user.
func (s *Service) ListReportsReceived(ctx context.Context, targetID uuid.UUID, params pagination.Params) (*Page[ReportDTO], error) {
	return listPage(ctx, params, s.repo.ListReportsReceived, targetID, reportFromModel, reportCursor)
}

// ensureEndpoints verifies both users exist and are active before an edge is
// written.
func (s *Service) ensureEndpoints(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		exists, err := s.repo.UserExistsActive(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user")
		}
		if !exists {
			return ErrUserNotFound
		}
	}
	return nil
}

func (s *Service) observe(op string, err error) {
	if err != nil {
		s.metrics.IncFailure(op)
		return
	}
	s.metrics.IncSuccess(op)
}

func invitationCursor(m *models.FriendInvitation) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

func friendshipCursor(m *models.Friendship) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

func managedCursor(m *models.ManagedFriendship) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

func thumbsUpCursor(m *models.ThumbsUp) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

func reportCursor(m *models.Report) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

// listPage runs the shared cursor-pagination dance: fetch limit+1 rows, emit
// a next cursor when the extra row came back.
func listPage[M any, D any](
	ctx context.Context,
	params pagination.Params,
	fetch func(ctx context.Context, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]M, error),
	id uuid.UUID,
	project func(*M) D,
	cursorOf func(*M) pagination.Cursor,
) (*Page[D], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := fetch(ctx, id, cursor, limit+1)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Page[D]{Items: []D{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list edges")
	}

	page := &Page[D]{Items: make([]D, 0, len(rows))}
	if len(rows) > limit {
		page.NextCursor = pagination.EncodeCursor(cursorOf(&rows[limit-1]))
		rows = rows[:limit]
	}
	for i := range rows {
		page.Items = append(page.Items, project(&rows[i]))
	}
	return page, nil
}
