package users

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/config"
	"github.com/joonseokim/peerlink-backend/pkg/countries"
	"github.com/joonseokim/peerlink-backend/pkg/db"
	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/enums"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/security"
)

const (
	maxUsernameLen         = 20
	maxNicknameLen         = 20
	minBirthYear           = 1900
	placeholderPasswordLen = 32
)

// Usernames follow the same character class the legacy accounts were created
// with: word characters plus @ . + -.
var usernamePattern = regexp.MustCompile(`^[0-9A-Za-z_.@+-]+$`)

// CreateUserParams is the caller-facing signup input. Exactly one of Username
// and FacebookUserID must be set.
type CreateUserParams struct {
	Username       string
	Password       string
	FacebookUserID string
	Email          *string

	Nickname  *string
	BirthYear *int
	Gender    string
	Country   string
	City      string
	TimeZone  string
	Language  string
}

// CreateSuperuserParams extends signup with privilege flag overrides. Nil
// means "use the forced value"; explicit false is rejected.
type CreateSuperuserParams struct {
	CreateUserParams
	IsStaff     *bool
	IsSuperuser *bool
}

// TxRunner abstracts the transactional boundary for multi-row writes.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type factoryRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	CreateFacebookProfile(ctx context.Context, dto CreateFacebookProfileDTO) (*models.FacebookUserProfile, error)
}

// Factory produces users under the identity-mode invariants: a local account
// carries a username and hashed password, a facebook account carries a linked
// external profile, and the facebook path writes both rows atomically.
type Factory interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	CreateSuperuser(ctx context.Context, params CreateSuperuserParams) (*models.User, error)
}

// FactoryParams packages the dependencies for the user factory.
type FactoryParams struct {
	TxRunner       TxRunner
	RepoFactory    func(tx *gorm.DB) factoryRepository
	PasswordConfig config.PasswordConfig
}

type factory struct {
	txRunner    TxRunner
	repoFactory func(tx *gorm.DB) factoryRepository
	passwordCfg config.PasswordConfig
}

// NewFactory builds a user factory with the provided dependencies.
func NewFactory(params FactoryParams) (Factory, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = func(tx *gorm.DB) factoryRepository { return NewRepository(tx) }
	}
	return &factory{
		txRunner:    params.TxRunner,
		repoFactory: repoFactory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (f *factory) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	username := normalizeUsername(params.Username)
	facebookUserID := strings.TrimSpace(params.FacebookUserID)

	switch {
	case username != "" && facebookUserID != "":
		return nil, ErrConflictingIdentity
	case username == "" && facebookUserID == "":
		return nil, ErrMissingIdentity
	}

	dto, err := buildProfileDTO(params)
	if err != nil {
		return nil, err
	}

	if username != "" {
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		if params.Password == "" {
			return nil, ErrMissingCredential
		}
		hash, err := security.HashPassword(params.Password, f.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		dto.Username = &username
		dto.PasswordHash = hash
		return f.persist(ctx, dto, nil)
	}

	// Facebook accounts never log in with a password; store an unusable
	// random credential so the column stays non-null.
	placeholder, err := security.GeneratePlaceholderPassword(placeholderPasswordLen)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate placeholder password")
	}
	hash, err := security.HashPassword(placeholder, f.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash placeholder password")
	}
	dto.PasswordHash = hash
	dto.IsFacebookUser = true

	return f.persist(ctx, dto, &CreateFacebookProfileDTO{
		FacebookUserID: facebookUserID,
		Email:          normalizeEmail(params.Email),
	})
}

func (f *factory) CreateSuperuser(ctx context.Context, params CreateSuperuserParams) (*models.User, error) {
	if params.IsStaff != nil && !*params.IsStaff {
		return nil, ErrPrivilegeInvariant
	}
	if params.IsSuperuser != nil && !*params.IsSuperuser {
		return nil, ErrPrivilegeInvariant
	}
	if strings.TrimSpace(params.FacebookUserID) != "" {
		return nil, ErrConflictingIdentity
	}

	username := normalizeUsername(params.Username)
	if username == "" {
		return nil, ErrMissingIdentity
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if params.Password == "" {
		return nil, ErrMissingCredential
	}

	dto, err := buildProfileDTO(params.CreateUserParams)
	if err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(params.Password, f.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	dto.Username = &username
	dto.PasswordHash = hash
	dto.IsStaff = true
	dto.IsSuperuser = true

	return f.persist(ctx, dto, nil)
}

// persist writes the user row and, for facebook accounts, the linked profile
// row in one transaction. A half-created facebook user must never be
// observable.
func (f *factory) persist(ctx context.Context, dto CreateUserDTO, profile *CreateFacebookProfileDTO) (*models.User, error) {
	var created *models.User
	err := f.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := f.repoFactory(tx)

		user, err := repo.Create(ctx, dto)
		if err != nil {
			return mapUserUniqueViolation(err)
		}

		if profile != nil {
			profile.UserID = user.ID
			linked, err := repo.CreateFacebookProfile(ctx, *profile)
			if err != nil {
				if db.IsUniqueViolation(err, "email") {
					return ErrEmailTaken
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create facebook profile")
			}
			user.FacebookProfile = linked
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func mapUserUniqueViolation(err error) error {
	switch {
	case db.IsUniqueViolation(err, "username"):
		return ErrUsernameTaken
	case db.IsUniqueViolation(err, "nickname"):
		return ErrNicknameTaken
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
}

// normalizeUsername trims and applies NFKC so visually identical usernames
// collide on the unique index instead of coexisting.
func normalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	cleaned := strings.ToLower(strings.TrimSpace(*email))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func validateUsername(username string) error {
	if len([]rune(username)) > maxUsernameLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "username exceeds 20 characters")
	}
	if !usernamePattern.MatchString(username) {
		return pkgerrors.New(pkgerrors.CodeValidation, "username contains invalid characters")
	}
	return nil
}

// buildProfileDTO validates the shared profile attributes and returns a DTO
// without identity fields set.
func buildProfileDTO(params CreateUserParams) (CreateUserDTO, error) {
	var dto CreateUserDTO

	country := strings.ToUpper(strings.TrimSpace(params.Country))
	if !countries.IsValid(country) {
		return dto, pkgerrors.New(pkgerrors.CodeValidation, "invalid country code")
	}

	tz := strings.TrimSpace(params.TimeZone)
	if tz == "" {
		return dto, pkgerrors.New(pkgerrors.CodeValidation, "time zone is required")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return dto, pkgerrors.New(pkgerrors.CodeValidation, "invalid time zone")
	}

	language := strings.TrimSpace(params.Language)
	if language == "" || len(language) > 10 {
		return dto, pkgerrors.New(pkgerrors.CodeValidation, "invalid language")
	}

	if params.BirthYear != nil {
		if *params.BirthYear < minBirthYear || *params.BirthYear > time.Now().Year() {
			return dto, pkgerrors.New(pkgerrors.CodeValidation, "birth year out of range")
		}
		year := *params.BirthYear
		dto.BirthYear = &year
	}

	gender, err := parseOptionalGender(params.Gender)
	if err != nil {
		return dto, err
	}
	dto.Gender = gender

	if params.Nickname != nil {
		nickname := strings.TrimSpace(*params.Nickname)
		if nickname != "" {
			if len([]rune(nickname)) > maxNicknameLen {
				return dto, pkgerrors.New(pkgerrors.CodeValidation, "nickname exceeds 20 characters")
			}
			dto.Nickname = &nickname
		}
	}

	dto.Country = country
	dto.City = strings.TrimSpace(params.City)
	dto.TimeZone = tz
	dto.Language = language
	return dto, nil
}

func parseOptionalGender(value string) (enums.Gender, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return enums.GenderUnspecified, nil
	}
	gender, err := enums.ParseGender(value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	return gender, nil
}
