package user

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type (
	// UserRepository persists whole User aggregates. Save replaces the stored
	// document only when its version still matches user.Version.
	UserRepository interface {
		FindByEmail(ctx context.Context, email string) (*entities.User, error)
		FindByLocationID(ctx context.Context, locationID string) (*entities.User, error)
		FindAll(ctx context.Context) ([]*entities.User, error)
		Create(ctx context.Context, user *entities.User) error
		Save(ctx context.Context, user *entities.User) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserRepository stores each aggregate as one jsonb row in postgres.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var row entities.UserDocument
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Upstream("find user by email", err)
	}
	return fromDocument(row), nil
}

func (r *userRepository) FindByLocationID(ctx context.Context, locationID string) (*entities.User, error) {
	probe, err := json.Marshal([]map[string]string{{"id": locationID}})
	if err != nil {
		return nil, err
	}

	var row entities.UserDocument
	if err := r.db.WithContext(ctx).
		Where("document -> 'storage' @> ?::jsonb", string(probe)).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, domain.Upstream("find user by location", err)
	}
	return fromDocument(row), nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	var rows []entities.UserDocument
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, domain.Upstream("list users", err)
	}

	users := make([]*entities.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, fromDocument(row))
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	user.Email = NormalizeEmail(user.Email)
	row := entities.UserDocument{
		ID:       user.ID,
		Email:    user.Email,
		Version:  user.Version,
		Document: *user,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return domain.Upstream("create user", err)
	}
	return nil
}

func (r *userRepository) Save(ctx context.Context, user *entities.User) error {
	next := *user
	next.Version = user.Version + 1

	row := entities.UserDocument{
		Email:    NormalizeEmail(next.Email),
		Version:  next.Version,
		Document: next,
	}

	res := r.db.WithContext(ctx).
		Model(&entities.UserDocument{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Select("email", "version", "document", "updated_at").
		Updates(row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return domain.Upstream("save user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}

	user.Version = next.Version
	return nil
}

func fromDocument(row entities.UserDocument) *entities.User {
	u := row.Document
	u.ID = row.ID
	u.Email = row.Email
	u.Version = row.Version
	if u.CreatedAt.IsZero() {
		u.CreatedAt = row.CreatedAt
	}
	u.UpdatedAt = row.UpdatedAt
	return &u
}
