package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookshelf/internal/models"
)

func (r *GormRepo) exists(model any, column string, id uint) error {
	var n int64
	if err := r.DB.Model(model).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) userAndBookExist(userID, bookID uint) error {
	if err := r.exists(&models.User{}, "user_id", userID); err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}
	if err := r.exists(&models.Book{}, "book_id", bookID); err != nil {
		return fmt.Errorf("book %d: %w", bookID, err)
	}
	return nil
}

// AddFavorite inserts (userID, bookID) unless it is already present. created
// is false when the existing row is returned instead.
func (r *GormRepo) AddFavorite(ctx context.Context, userID, bookID uint) (fav *models.Favorite, created bool, err error) {
	err = r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.userAndBookExist(userID, bookID); err != nil {
			return err
		}

		row := models.Favorite{UserID: userID, BookID: bookID}
		res := tx.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return classify(res.Error)
		}
		if res.RowsAffected > 0 {
			fav, created = &row, true
			return nil
		}

		var existing models.Favorite
		if err := tx.DB.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error; err != nil {
			return classify(err)
		}
		fav = &existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return fav, created, nil
}

func (r *GormRepo) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	favs := make([]models.Favorite, 0)
	if err := r.DB.WithContext(ctx).Order("favorite_id ASC").Find(&favs).Error; err != nil {
		return nil, classify(err)
	}
	return favs, nil
}

// FavoriteBooks joins favorites to books for one user.
func (r *GormRepo) FavoriteBooks(ctx context.Context, userID uint) ([]models.Book, error) {
	books := make([]models.Book, 0)
	err := r.DB.WithContext(ctx).
		Model(&models.Book{}).
		Joins("JOIN favorites ON favorites.book_id = books.book_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.favorite_id ASC").
		Find(&books).Error
	if err != nil {
		return nil, classify(err)
	}
	return books, nil
}

// UpdateFavorite repoints a favorite row. When owner is non-zero the row must
// also belong to owner.
func (r *GormRepo) UpdateFavorite(ctx context.Context, favoriteID, owner, userID, bookID uint) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		q := tx.DB.Where("favorite_id = ?", favoriteID)
		if owner != 0 {
			q = q.Where("user_id = ?", owner)
		}
		if err := q.First(&fav).Error; err != nil {
			return classify(err)
		}
		if err := tx.userAndBookExist(userID, bookID); err != nil {
			return err
		}

		if err := tx.DB.Model(&fav).Updates(map[string]any{
			"user_id": userID,
			"book_id": bookID,
		}).Error; err != nil {
			return classify(err)
		}
		fav.UserID, fav.BookID = userID, bookID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *GormRepo) DeleteFavorite(ctx context.Context, userID, bookID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
