package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/pagination"
)

type stubProfileRepo struct {
	users       map[uuid.UUID]*models.User
	updates     map[string]any
	vipRows     []models.User
	vipLimit    int
	deactivated []uuid.UUID
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubProfileRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok && user.IsActive {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubProfileRepo) SetProfileImage(ctx context.Context, id uuid.UUID, ref string) error {
	if user, ok := s.users[id]; ok {
		user.ProfileImage = &ref
	}
	return nil
}

func (s *stubProfileRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *stubProfileRepo) ListVIP(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.User, error) {
	s.vipLimit = limit
	if limit < len(s.vipRows) {
		return s.vipRows[:limit], nil
	}
	return s.vipRows, nil
}

func TestGetUnknownUser(t *testing.T) {
	svc := NewServiceWithRepo(newStubProfileRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfileBuildsColumnUpdates(t *testing.T) {
	repo := newStubProfileRepo()
	user := &models.User{ID: uuid.New(), IsActive: true, Country: "US"}
	repo.users[user.ID] = user
	svc := NewServiceWithRepo(repo)

	nickname := " Nick "
	year := 1991
	gender := "male"
	country := "kr"
	if _, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileParams{
		Nickname:  &nickname,
		BirthYear: &year,
		Gender:    &gender,
		Country:   &country,
	}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if repo.updates["nickname"] != "Nick" {
		t.Fatalf("expected trimmed nickname, got %v", repo.updates["nickname"])
	}
	if repo.updates["birth_year"] != 1991 {
		t.Fatalf("expected birth year, got %v", repo.updates["birth_year"])
	}
	if repo.updates["country"] != "KR" {
		t.Fatalf("expected uppercased country, got %v", repo.updates["country"])
	}
}

func TestUpdateProfileRejectsBadBirthYear(t *testing.T) {
	svc := NewServiceWithRepo(newStubProfileRepo())

	year := 1850
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileParams{BirthYear: &year})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListVIPPaginates(t *testing.T) {
	repo := newStubProfileRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		repo.vipRows = append(repo.vipRows, models.User{
			ID:         uuid.New(),
			IsVIP:      true,
			IsActive:   true,
			DateJoined: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	svc := NewServiceWithRepo(repo)

	page, err := svc.ListVIP(context.Background(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list vip: %v", err)
	}

	if repo.vipLimit != 3 {
		t.Fatalf("expected limit+1 fetch, got %d", repo.vipLimit)
	}
	if len(page.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(page.Users))
	}
	if page.NextCursor == "" {
		t.Fatalf("expected a next cursor")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if cursor.ID != repo.vipRows[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestListVIPRejectsBadCursor(t *testing.T) {
	svc := NewServiceWithRepo(newStubProfileRepo())

	_, err := svc.ListVIP(context.Background(), pagination.Params{Cursor: "not-base64!!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
