package repo

import (
	"context"

	"github.com/Skotchmaster/bookshelf/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return classify(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.DB.WithContext(ctx).Order("user_id ASC").Find(&users).Error; err != nil {
		return nil, classify(err)
	}
	return users, nil
}

// SaveUser writes every column of u. The row must exist.
func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	res := r.DB.WithContext(ctx).Model(u).
		Select("username", "email", "password_hash", "role", "updated_at").
		Updates(u)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user and every favorite that references it.
func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return classify(err)
		}
		res := tx.DB.Where("user_id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
