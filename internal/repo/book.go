package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/models"
)

func (r *GormRepo) CreateBook(ctx context.Context, b *models.Book) error {
	return classify(r.DB.WithContext(ctx).Create(b).Error)
}

func (r *GormRepo) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).Where("book_id = ?", id).First(&book).Error; err != nil {
		return nil, classify(err)
	}
	return &book, nil
}

// ListBooks returns every book, or only those in category when it is set.
func (r *GormRepo) ListBooks(ctx context.Context, category domain.Category) ([]models.Book, error) {
	q := r.DB.WithContext(ctx).Model(&models.Book{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	books := make([]models.Book, 0)
	if err := q.Order("book_id ASC").Find(&books).Error; err != nil {
		return nil, classify(err)
	}
	return books, nil
}

func (r *GormRepo) SaveBook(ctx context.Context, b *models.Book) error {
	res := r.DB.WithContext(ctx).Model(b).
		Select("title", "author", "cover_image", "category", "summary", "isbn", "price").
		Updates(b)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteBook(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Where("book_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return classify(err)
		}
		res := tx.DB.Where("book_id = ?", id).Delete(&models.Book{})
		if res.Error != nil {
			return classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// likeEscaper makes the user's query match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchBooks is the substring match used when no search index is configured.
func (r *GormRepo) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := `LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\'`

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where(where, pattern, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, classify(err)
	}

	books := make([]models.Book, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where(where, pattern, pattern, pattern).
		Order("book_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error; err != nil {
		return 0, nil, classify(err)
	}
	return total, books, nil
}
