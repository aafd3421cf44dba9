package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/config"
	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
	"github.com/joonseokim/peerlink-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubFactoryRepo struct {
	createdUser    *models.User
	createdProfile *models.FacebookUserProfile
	createErr      error
	profileErr     error
}

func (s *stubFactoryRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.createdUser = user
	return user, nil
}

func (s *stubFactoryRepo) CreateFacebookProfile(ctx context.Context, dto CreateFacebookProfileDTO) (*models.FacebookUserProfile, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	profile := dto.ToModel()
	profile.ID = uuid.New()
	s.createdProfile = profile
	return profile, nil
}

func newFactoryTestSetup(t *testing.T) (Factory, *stubFactoryRepo) {
	t.Helper()
	repo := &stubFactoryRepo{}
	f, err := NewFactory(FactoryParams{
		TxRunner: stubTxRunner{},
		RepoFactory: func(tx *gorm.DB) factoryRepository {
			return repo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	return f, repo
}

func sampleCreateParams() CreateUserParams {
	return CreateUserParams{
		Country:  "US",
		TimeZone: "UTC",
		Language: "en",
	}
}

func TestCreateUserLocal(t *testing.T) {
	f, repo := newFactoryTestSetup(t)

	params := sampleCreateParams()
	params.Username = "alice"
	params.Password = "Secret123!"

	user, err := f.CreateUser(context.Background(), params)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if user.Username == nil || *user.Username != "alice" {
		t.Fatalf("expected username alice, got %v", user.Username)
	}
	if user.IsFacebookUser {
		t.Fatalf("local account must not be flagged as facebook user")
	}
	if repo.createdProfile != nil {
		t.Fatalf("local account must not create a facebook profile")
	}
	ok, err := security.VerifyPassword("Secret123!", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestCreateUserNormalizesUsername(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	params := sampleCreateParams()
	params.Username = "  ｂｏｂ  " // fullwidth letters fold to ascii under NFKC
	params.Password = "Secret123!"

	user, err := f.CreateUser(context.Background(), params)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Username == nil || *user.Username != "bob" {
		t.Fatalf("expected normalized username bob, got %v", user.Username)
	}
}

func TestCreateUserBothIdentitiesFails(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	params := sampleCreateParams()
	params.Username = "alice"
	params.Password = "Secret123!"
	params.FacebookUserID = "ext-42"

	if _, err := f.CreateUser(context.Background(), params); !errors.Is(err, ErrConflictingIdentity) {
		t.Fatalf("expected ErrConflictingIdentity, got %v", err)
	}
}

func TestCreateUserNoIdentityFails(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	if _, err := f.CreateUser(context.Background(), sampleCreateParams()); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestCreateUserUsernameWithoutPasswordFails(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	params := sampleCreateParams()
	params.Username = "alice"

	if _, err := f.CreateUser(context.Background(), params); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestCreateUserFacebookCreatesLinkedProfile(t *testing.T) {
	f, repo := newFactoryTestSetup(t)

	email := "EXT42@Example.com"
	params := sampleCreateParams()
	params.FacebookUserID = "ext-42"
	params.Email = &email

	user, err := f.CreateUser(context.Background(), params)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if !user.IsFacebookUser {
		t.Fatalf("expected is_facebook_user to be set")
	}
	if user.Username != nil {
		t.Fatalf("facebook account must not carry a username")
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected a placeholder password hash")
	}
	if repo.createdProfile == nil {
		t.Fatalf("expected a facebook profile row")
	}
	if repo.createdProfile.UserID != user.ID {
		t.Fatalf("profile not linked to created user")
	}
	if repo.createdProfile.FacebookUserID != "ext-42" {
		t.Fatalf("unexpected facebook user id %q", repo.createdProfile.FacebookUserID)
	}
	if repo.createdProfile.Email == nil || *repo.createdProfile.Email != "ext42@example.com" {
		t.Fatalf("expected lowercased email, got %v", repo.createdProfile.Email)
	}
}

func TestCreateUserFacebookProfileFailureAbortsSignup(t *testing.T) {
	f, repo := newFactoryTestSetup(t)
	repo.profileErr = errors.New("insert failed")

	params := sampleCreateParams()
	params.FacebookUserID = "ext-42"

	user, err := f.CreateUser(context.Background(), params)
	if err == nil {
		t.Fatalf("expected profile failure to abort the signup")
	}
	if user != nil {
		t.Fatalf("no user must be returned on a failed dual write")
	}
}

func TestCreateUserInvalidCountry(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	params := sampleCreateParams()
	params.Username = "alice"
	params.Password = "Secret123!"
	params.Country = "XX"

	_, err := f.CreateUser(context.Background(), params)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSuperuserForcesFlags(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	params := CreateSuperuserParams{CreateUserParams: sampleCreateParams()}
	params.Username = "root"
	params.Password = "Secret123!"

	user, err := f.CreateSuperuser(context.Background(), params)
	if err != nil {
		t.Fatalf("create superuser: %v", err)
	}
	if !user.IsStaff || !user.IsSuperuser {
		t.Fatalf("expected staff and superuser flags forced on, got staff=%v super=%v", user.IsStaff, user.IsSuperuser)
	}
}

func TestCreateSuperuserRejectsFlagOverride(t *testing.T) {
	f, _ := newFactoryTestSetup(t)

	off := false
	params := CreateSuperuserParams{CreateUserParams: sampleCreateParams(), IsSuperuser: &off}
	params.Username = "root"
	params.Password = "Secret123!"

	if _, err := f.CreateSuperuser(context.Background(), params); !errors.Is(err, ErrPrivilegeInvariant) {
		t.Fatalf("expected ErrPrivilegeInvariant, got %v", err)
	}
}
