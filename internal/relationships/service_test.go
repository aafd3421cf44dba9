package relationships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
	"github.com/joonseokim/peerlink-backend/pkg/pagination"
)

func setupGraphTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  nickname TEXT UNIQUE,
  birth_year INTEGER,
  gender TEXT NOT NULL DEFAULT 'unspecified',
  country TEXT NOT NULL DEFAULT '',
  city TEXT,
  time_zone TEXT,
  language TEXT,
  profile_image TEXT,
  gem_total_count INTEGER NOT NULL DEFAULT 0,
  is_facebook_user INTEGER NOT NULL DEFAULT 0,
  is_vip INTEGER NOT NULL DEFAULT 0,
  is_staff INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_superuser INTEGER NOT NULL DEFAULT 0,
  date_joined DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS friend_invitations (
  id TEXT PRIMARY KEY,
  source_id TEXT NOT NULL,
  target_id TEXT NOT NULL,
  is_accepted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (source_id, target_id)
);`,
		`CREATE TABLE IF NOT EXISTS friendships (
  id TEXT PRIMARY KEY,
  source_id TEXT NOT NULL,
  target_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (source_id, target_id)
);`,
		`CREATE TABLE IF NOT EXISTS managed_friendships (
  id TEXT PRIMARY KEY,
  source_id TEXT NOT NULL,
  target_id TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (source_id, target_id)
);`,
		`CREATE TABLE IF NOT EXISTS thumbsups (
  id TEXT PRIMARY KEY,
  source_id TEXT NOT NULL,
  target_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (source_id, target_id)
);`,
		`CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  source_id TEXT NOT NULL,
  target_id TEXT NOT NULL,
  type TEXT NOT NULL,
  screenshot TEXT,
  created_at DATETIME,
  UNIQUE (source_id, target_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	return conn
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newGraphService(t *testing.T, conn *gorm.DB) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		TxRunner: gormTxRunner{db: conn},
		Repo:     NewRepository(conn),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	username := "u-" + uuid.NewString()[:8]
	user := &models.User{
		Username:     &username,
		PasswordHash: "x",
		Country:      "US",
		TimeZone:     "UTC",
		Language:     "en",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user.ID
}

func seedInactiveUser(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	id := seedUser(t, conn)
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", id).UpdateColumn("is_active", false).Error)
	return id
}

func TestInviteCreatesPendingEdge(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	invitation, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)

	assert.Equal(t, alice, invitation.SourceID)
	assert.Equal(t, bob, invitation.TargetID)
	assert.False(t, invitation.IsAccepted)
}

func TestInviteSelfReference(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice := seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, alice)
	assert.ErrorIs(t, err, ErrSelfReference)
}

func TestInviteUnknownOrInactiveTarget(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice := seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	ghost := seedInactiveUser(t, conn)
	_, err = svc.Invite(context.Background(), alice, ghost)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInviteDuplicatePair(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)

	_, err = svc.Invite(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrDuplicateInvitation)
}

func TestAcceptMaterializesBothFriendshipDirections(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(context.Background(), alice, bob))

	var invitation models.FriendInvitation
	require.NoError(t, conn.Where("source_id = ? AND target_id = ?", alice, bob).First(&invitation).Error)
	assert.True(t, invitation.IsAccepted)

	var count int64
	require.NoError(t, conn.Model(&models.Friendship{}).
		Where("(source_id = ? AND target_id = ?) OR (source_id = ? AND target_id = ?)", alice, bob, bob, alice).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAcceptRequiresPendingInvitation(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	err := svc.Accept(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAcceptTwiceFails(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(context.Background(), alice, bob))

	err = svc.Accept(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// the second attempt must not have added friendship rows
	var count int64
	require.NoError(t, conn.Model(&models.Friendship{}).
		Where("source_id IN (?, ?)", alice, bob).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAcceptMutualInvitationsEitherOrder(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = svc.Invite(context.Background(), bob, alice)
	require.NoError(t, err)

	require.NoError(t, svc.Accept(context.Background(), alice, bob))
	require.NoError(t, svc.Accept(context.Background(), bob, alice), "second acceptance must tolerate already-materialized friendship rows")

	var invitations []models.FriendInvitation
	require.NoError(t, conn.Where("source_id IN (?, ?)", alice, bob).Find(&invitations).Error)
	require.Len(t, invitations, 2)
	for _, invitation := range invitations {
		assert.True(t, invitation.IsAccepted)
	}

	// the pair still shares exactly one edge per direction
	var count int64
	require.NoError(t, conn.Model(&models.Friendship{}).
		Where("source_id IN (?, ?)", alice, bob).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDeclineRemovesPendingOnly(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)
	require.NoError(t, svc.Decline(context.Background(), alice, bob))

	// pair is back to unrelated, so a fresh invite succeeds
	_, err = svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)

	require.NoError(t, svc.Accept(context.Background(), alice, bob))
	err = svc.Decline(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrInvalidTransition, "accepted invitations cannot be declined")
}

func TestUnfriendRemovesBothDirections(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, bob)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(context.Background(), alice, bob))

	require.NoError(t, svc.Unfriend(context.Background(), bob, alice))

	var count int64
	require.NoError(t, conn.Model(&models.Friendship{}).
		Where("source_id IN (?, ?)", alice, bob).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)

	err = svc.Unfriend(context.Background(), alice, bob)
	assert.ErrorIs(t, err, ErrFriendshipNotFound)
}

func TestAnnotateReplacesExistingType(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	edge, err := svc.Annotate(context.Background(), alice, bob, "bookmarked")
	require.NoError(t, err)
	assert.Equal(t, enums.ManagedFriendshipBookmarked, edge.Type)

	edge, err = svc.Annotate(context.Background(), alice, bob, "blocked")
	require.NoError(t, err)
	assert.Equal(t, enums.ManagedFriendshipBlocked, edge.Type)

	var count int64
	require.NoError(t, conn.Model(&models.ManagedFriendship{}).
		Where("source_id = ? AND target_id = ?", alice, bob).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "re-annotating must replace, not add")
}

func TestAnnotateRejectsUnknownType(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Annotate(context.Background(), alice, bob, "favorited")
	require.Error(t, err)
}

func TestClearIsIdempotent(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Annotate(context.Background(), alice, bob, "hidden")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), alice, bob))
	require.NoError(t, svc.Clear(context.Background(), alice, bob), "clearing an absent edge is not an error")
}

func TestListManagedReceived(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob, carol := seedUser(t, conn), seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Annotate(context.Background(), alice, carol, "blocked")
	require.NoError(t, err)
	_, err = svc.Annotate(context.Background(), bob, carol, "hidden")
	require.NoError(t, err)

	page, err := svc.ListManagedReceived(context.Background(), carol, "", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Equal(t, carol, item.TargetID)
	}

	blocked, err := svc.ListManagedReceived(context.Background(), carol, "blocked", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, blocked.Items, 1)
	assert.Equal(t, alice, blocked.Items[0].SourceID)
}

func TestThumbsUpIsIdempotent(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	first, err := svc.SendThumbsUp(context.Background(), alice, bob)
	require.NoError(t, err)

	second, err := svc.SendThumbsUp(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-send must not create a second row")

	count, err := svc.CountThumbsUpsReceived(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFileReportRejectsDuplicate(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob := seedUser(t, conn), seedUser(t, conn)

	screenshot := "reports/evidence-1.png"
	report, err := svc.FileReport(context.Background(), alice, bob, "verbal_abuse", &screenshot)
	require.NoError(t, err)
	assert.Equal(t, enums.ReportTypeVerbalAbuse, report.Type)
	require.NotNil(t, report.Screenshot)

	_, err = svc.FileReport(context.Background(), alice, bob, "sexual_abuse", nil)
	assert.ErrorIs(t, err, ErrDuplicateReport)
}

func TestListReportsReceived(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob, carol := seedUser(t, conn), seedUser(t, conn), seedUser(t, conn)

	_, err := svc.FileReport(context.Background(), alice, carol, "verbal_abuse", nil)
	require.NoError(t, err)
	_, err = svc.FileReport(context.Background(), bob, carol, "sexual_abuse", nil)
	require.NoError(t, err)

	page, err := svc.ListReportsReceived(context.Background(), carol, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Equal(t, carol, item.TargetID)
	}

	empty, err := svc.ListReportsReceived(context.Background(), alice, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestListFriendsPaginates(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice := seedUser(t, conn)

	for i := 0; i < 3; i++ {
		friend := seedUser(t, conn)
		_, err := svc.Invite(context.Background(), alice, friend)
		require.NoError(t, err)
		require.NoError(t, svc.Accept(context.Background(), alice, friend))
	}

	page, err := svc.ListFriends(context.Background(), alice, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.ListFriends(context.Background(), alice, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(page.Items, rest.Items...) {
		assert.Equal(t, alice, item.SourceID)
		assert.False(t, seen[item.TargetID], "duplicate target across pages")
		seen[item.TargetID] = true
	}
}

func TestListIncomingInvitations(t *testing.T) {
	conn := setupGraphTestDB(t)
	svc := newGraphService(t, conn)
	alice, bob, carol := seedUser(t, conn), seedUser(t, conn), seedUser(t, conn)

	_, err := svc.Invite(context.Background(), alice, carol)
	require.NoError(t, err)
	_, err = svc.Invite(context.Background(), bob, carol)
	require.NoError(t, err)

	page, err := svc.ListIncomingInvitations(context.Background(), carol, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}
