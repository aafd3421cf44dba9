package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	"github.com/joonseokim/peerlink-backend/pkg/pagination"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFacebookProfile inserts the external identity row for a user.
func (r *Repository) CreateFacebookProfile(ctx context.Context, dto CreateFacebookProfileDTO) (*models.FacebookUserProfile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a user by their UUID, facebook profile included.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("FacebookProfile").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByID loads an active user by their UUID.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("FacebookProfile").
		Where("is_active = ?", true).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByFacebookUserID resolves a user through their external identity.
func (r *Repository) FindByFacebookUserID(ctx context.Context, facebookUserID string) (*models.User, error) {
	var profile models.FacebookUserProfile
	if err := r.db.WithContext(ctx).
		Where("facebook_user_id = ?", facebookUserID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("FacebookProfile").
		First(&user, "id = ?", profile.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the provided column updates to the user row.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetProfileImage stores the blob reference for the user's profile image.
func (r *Repository) SetProfileImage(ctx context.Context, id uuid.UUID, ref string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("profile_image", ref).Error
}

// Deactivate soft-disables the account. Rows are never hard-deleted.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_active", false).Error
}

// ListVIP returns a cursor page of active VIP users in join order.
func (r *Repository) ListVIP(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Where("is_vip = ? AND is_active = ?", true, true).
		Order("date_joined DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(date_joined < ?) OR (date_joined = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
