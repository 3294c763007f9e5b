package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
)

// CreateUser inserts u. A taken username yields ErrDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "create user")
	}
	return nil
}

// GetUserByUsername looks up an account by its case-folded name.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	return getUser(ctx, db, "username = ?", username)
}

// GetUserByID looks up an account by id.
func GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return getUser(ctx, db, "id = ?", id)
}

func getUser(ctx context.Context, db *gorm.DB, cond string, arg any) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where(cond, arg).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

// ListNonAdminUsers returns every user whose role is not admin, by id.
func ListNonAdminUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Where("role <> ?", domain.RoleAdmin).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return out, nil
}

// DeleteUser removes an account; ErrNotFound if the id is unknown.
func DeleteUser(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePasswordHash stores a new PHC hash for the account.
func UpdatePasswordHash(ctx context.Context, db *gorm.DB, id uint, hash string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update password")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
