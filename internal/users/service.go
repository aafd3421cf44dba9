package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/countries"
	"github.com/joonseokim/peerlink-backend/pkg/db"
	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/pagination"
)

// UpdateProfileParams carries partial profile updates. Nil means "leave as
// is"; identity fields are immutable and deliberately absent.
type UpdateProfileParams struct {
	Nickname  *string
	BirthYear *int
	Gender    *string
	Country   *string
	City      *string
	TimeZone  *string
	Language  *string
}

// VIPPage is one cursor page of the VIP projection.
type VIPPage struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type profileRepository interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SetProfileImage(ctx context.Context, id uuid.UUID, ref string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListVIP(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.User, error)
}

// Service covers the read/update surface of existing accounts, plus the VIP
// projection. Creation goes through the Factory.
type Service struct {
	repo profileRepository
}

// NewService binds the profile service to the shared DB client.
func NewService(client *db.Client) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{repo: NewRepository(client.DB())}, nil
}

// NewServiceWithRepo is the injection seam for tests.
func NewServiceWithRepo(repo profileRepository) *Service {
	return &Service{repo: repo}
}

// ProfileView is the authenticated account page: the projection plus the
// derived identity labels.
type ProfileView struct {
	UserDTO
	Identity        string `json:"identity"`
	ShortName       string `json:"short_name"`
	ProfileComplete bool   `json:"profile_complete"`
}

// GetView loads the account and derives its display labels.
func (s *Service) GetView(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	user, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	identity, err := DisplayIdentity(user)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		UserDTO:         FromModel(user),
		Identity:        identity,
		ShortName:       GetShortName(user),
		ProfileComplete: RequiredFieldsComplete(user),
	}, nil
}

// Get loads an active account projection by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	dto := FromModel(user)
	return &dto, nil
}

// UpdateProfile validates and applies the provided partial updates.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (*UserDTO, error) {
	updates, err := buildProfileUpdates(params)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProfile(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err, "nickname") {
				return nil, ErrNicknameTaken
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
	}

	return s.Get(ctx, id)
}

// SetProfileImage stores the uploaded blob reference on the account.
func (s *Service) SetProfileImage(ctx context.Context, id uuid.UUID, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image reference is required")
	}
	if err := s.repo.SetProfileImage(ctx, id, ref); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set profile image")
	}
	return nil
}

// Deactivate soft-disables the account.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate user")
	}
	return nil
}

// ListVIP pages through the VIP projection in join order.
func (s *Service) ListVIP(ctx context.Context, params pagination.Params) (*VIPPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListVIP(ctx, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vip users")
	}

	page := &VIPPage{Users: make([]UserDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.DateJoined,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	for i := range rows {
		page.Users = append(page.Users, FromModel(&rows[i]))
	}
	return page, nil
}

func buildProfileUpdates(params UpdateProfileParams) (map[string]any, error) {
	updates := map[string]any{}

	if params.Nickname != nil {
		nickname := strings.TrimSpace(*params.Nickname)
		switch {
		case nickname == "":
			updates["nickname"] = nil
		case len([]rune(nickname)) > maxNicknameLen:
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nickname exceeds 20 characters")
		default:
			updates["nickname"] = nickname
		}
	}

	if params.BirthYear != nil {
		if *params.BirthYear < minBirthYear || *params.BirthYear > time.Now().Year() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "birth year out of range")
		}
		updates["birth_year"] = *params.BirthYear
	}

	if params.Gender != nil {
		gender, err := enums.ParseGender(strings.TrimSpace(*params.Gender))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		updates["gender"] = gender
	}

	if params.Country != nil {
		country := strings.ToUpper(strings.TrimSpace(*params.Country))
		if !countries.IsValid(country) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid country code")
		}
		updates["country"] = country
	}

	if params.City != nil {
		updates["city"] = strings.TrimSpace(*params.City)
	}

	if params.TimeZone != nil {
		tz := strings.TrimSpace(*params.TimeZone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid time zone")
		}
		updates["time_zone"] = tz
	}

	if params.Language != nil {
		language := strings.TrimSpace(*params.Language)
		if language == "" || len(language) > 10 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid language")
		}
		updates["language"] = language
	}

	return updates, nil
}
